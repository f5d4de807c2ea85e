package jbod_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
)

var _ = DescribeTable("PatternFor",
	func(disk int, pattern byte) {
		Expect(jbod.PatternFor(disk)).To(Equal(pattern))
	},
	Entry("disk 0", 0, byte(0xaa)),
	Entry("disk 1", 1, byte(0xbb)),
	Entry("disk 2", 2, byte(0xcc)),
	Entry("disk 14", 14, byte(0xcc)),
	Entry("disk 15", 15, byte(0xff)),
	Entry("disk 16", 16, byte(0xee)),
	Entry("disk 17", 17, byte(0xff)),
)
