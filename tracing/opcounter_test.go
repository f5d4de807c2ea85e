package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
)

var _ = Describe("OpCounter", func() {
	var (
		bank    *jbod.Bank
		counter *OpCounter
	)

	BeforeEach(func() {
		bank = jbod.MakeBuilder().Build("Bank")
		counter = NewOpCounter()
		bank.AcceptHook(counter)
	})

	It("should count commands and failures", func() {
		mount := jbod.NewOp(jbod.CmdMount, 0, 0).Encode()
		read := jbod.NewOp(jbod.CmdReadBlock, 0, 0).Encode()
		write := jbod.NewOp(jbod.CmdWriteBlock, 0, 0).Encode()

		Expect(bank.Execute(mount, nil)).To(Succeed())
		Expect(bank.Execute(mount, nil)).NotTo(Succeed())
		Expect(bank.Execute(read, make([]byte, 256))).To(Succeed())
		Expect(bank.Execute(write, make([]byte, 256))).NotTo(Succeed())

		Expect(counter.Count(jbod.CmdMount)).To(Equal(uint64(2)))
		Expect(counter.Count(jbod.CmdReadBlock)).To(Equal(uint64(1)))
		Expect(counter.Count(jbod.CmdUnmount)).To(BeZero())
		Expect(counter.Failures(jbod.AlreadyMounted)).To(Equal(uint64(1)))
		Expect(counter.Failures(jbod.BadWrite)).
			To(Equal(uint64(1)))

		Expect(counter.Commands()).To(Equal([]string{
			"MOUNT", "READ_BLOCK", "WRITE_BLOCK",
		}))
		Expect(counter.Snapshot()).To(HaveKeyWithValue("MOUNT", uint64(2)))
	})
})
