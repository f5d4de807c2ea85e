package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Naming", func() {
	DescribeTable("valid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).NotTo(Panic())
			Expect(MakeNamedBase(name).Name()).To(Equal(name))
		},
		Entry("single token", "Array"),
		Entry("hierarchy", "Array.Bank"),
		Entry("digits", "Array2.Bank0"),
		Entry("index", "Array.Disk[3]"),
		Entry("multi-dimensional index", "Bank[0][15]"),
	)

	DescribeTable("invalid names",
		func(name string) {
			Expect(func() { MakeNamedBase(name) }).To(Panic())
		},
		Entry("empty", ""),
		Entry("trailing dot", "Array."),
		Entry("empty token", "Array..Bank"),
		Entry("lower case", "array"),
		Entry("underscore", "Array_0"),
		Entry("unclosed bracket", "Disk[3"),
		Entry("non numeric index", "Disk[a]"),
		Entry("empty index", "Disk[]"),
		Entry("text after index", "Disk[1]x"),
	)
})
