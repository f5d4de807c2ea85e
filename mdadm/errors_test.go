package mdadm

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("Code",
	func(err error, code int) {
		Expect(Code(err)).To(Equal(code))
	},
	Entry("nil", nil, 0),
	Entry("out of range", ErrOutOfRange, -1),
	Entry("too large", ErrLengthTooLarge, -2),
	Entry("unmounted", ErrUnmounted, -3),
	Entry("bad buffer", ErrBadBuffer, -4),
	Entry("no permission", ErrNoPermission, -5),
	Entry("wrapped io", fmt.Errorf("%w: %w", ErrIO, errors.New("x")), -6),
	Entry("session", ErrAlreadyMounted, -1),
)

var _ = Describe("SessionCode", func() {
	It("should follow the legacy convention", func() {
		Expect(SessionCode(nil)).To(Equal(1))
		Expect(SessionCode(ErrAlreadyUnmounted)).To(Equal(-1))
	})
})
