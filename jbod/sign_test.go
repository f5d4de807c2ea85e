package jbod_test

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
)

var _ = Describe("Signer", func() {
	It("should sign with xxhash", func() {
		block := bytes.Repeat([]byte{0xaa}, 256)

		Expect(jbod.XXHashSigner{}.Sign(block)).To(Equal(xxhash.Sum64(block)))
	})

	It("should require a 32 byte highwayhash key", func() {
		_, err := jbod.NewHighwayHashSigner(make([]byte, 16))
		Expect(err).To(HaveOccurred())
	})

	It("should depend on the highwayhash key", func() {
		block := bytes.Repeat([]byte{0xbb}, 256)

		s1, err := jbod.NewHighwayHashSigner(make([]byte, 32))
		Expect(err).NotTo(HaveOccurred())

		key := make([]byte, 32)
		key[0] = 1
		s2, err := jbod.NewHighwayHashSigner(key)
		Expect(err).NotTo(HaveOccurred())

		Expect(s1.Sign(block)).To(Equal(s1.Sign(block)))
		Expect(s1.Sign(block)).NotTo(Equal(s2.Sign(block)))
	})
})
