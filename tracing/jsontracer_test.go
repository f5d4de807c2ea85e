package tracing

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/mdadm"
)

var _ = Describe("JSONTracer", func() {
	var (
		buf    *bytes.Buffer
		tracer *JSONTracer
		array  *mdadm.Array
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		tracer = NewJSONTracer(buf)

		array = mdadm.MakeBuilder().Build("Array")
		array.AcceptHook(tracer)
		array.Device().(*jbod.Bank).AcceptHook(tracer)
	})

	It("should write a valid empty array", func() {
		tracer.Close()

		var records []JSONRecord
		Expect(json.Unmarshal(buf.Bytes(), &records)).To(Succeed())
		Expect(records).To(BeEmpty())
	})

	It("should write every layer in order", func() {
		Expect(array.Mount()).To(Succeed())
		_, err := array.Read(0, 4, make([]byte, 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(array.Mount()).NotTo(Succeed())

		tracer.Close()

		var records []JSONRecord
		Expect(json.Unmarshal(buf.Bytes(), &records)).To(Succeed())

		types := []string{}
		for i, r := range records {
			Expect(r.Seq).To(Equal(uint64(i + 1)))
			types = append(types, r.Type)
		}

		Expect(types).To(Equal([]string{
			RecordOp, RecordSession,
			RecordOp, RecordOp, RecordTransfer,
			RecordSession,
		}))

		Expect(records[0].Location).To(Equal("Array.Bank"))
		Expect(records[0].Word).To(Equal("0x00000000"))
		Expect(records[4].Addr).To(BeZero())
		Expect(records[4].Length).To(Equal(uint32(4)))
		Expect(records[5].Error).To(Equal(mdadm.ErrAlreadyMounted.Error()))
	})

	It("should drop records after closing", func() {
		tracer.Close()
		Expect(array.Mount()).To(Succeed())
		tracer.Close()

		var records []JSONRecord
		Expect(json.Unmarshal(buf.Bytes(), &records)).To(Succeed())
		Expect(records).To(BeEmpty())
	})
})
