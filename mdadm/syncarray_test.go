package mdadm

import (
	"bytes"
	"log"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
)

var _ = Describe("SyncArray", func() {
	var s *SyncArray

	BeforeEach(func() {
		s = NewSyncArray(MakeBuilder().Build("Array"))
	})

	It("should expose the array", func() {
		Expect(s.Name()).To(Equal("Array"))
		Expect(s.Geometry()).To(Equal(jbod.DefaultGeometry()))
	})

	It("should track the session state", func() {
		Expect(s.Mount()).To(Succeed())
		Expect(s.GrantWritePermission()).To(Succeed())

		mounted, writable := s.State()
		Expect(mounted).To(BeTrue())
		Expect(writable).To(BeTrue())

		Expect(s.RevokeWritePermission()).To(Succeed())
		Expect(s.Unmount()).To(Succeed())

		mounted, writable = s.State()
		Expect(mounted).To(BeFalse())
		Expect(writable).To(BeFalse())
	})

	It("should serve concurrent writers to distinct blocks", func() {
		Expect(s.Mount()).To(Succeed())
		Expect(s.GrantWritePermission()).To(Succeed())

		const workers = 8
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()

				addr := uint32(i * jbod.DefaultDiskSize)
				data := bytes.Repeat([]byte{byte(i)}, 300)
				n, err := s.Write(addr+100, 300, data)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(300))
			}(i)
		}
		wg.Wait()

		for i := 0; i < workers; i++ {
			buf := make([]byte, 300)
			_, err := s.Read(uint32(i*jbod.DefaultDiskSize)+100, 300, buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf).To(Equal(bytes.Repeat([]byte{byte(i)}, 300)))
		}
	})

	It("should run Do exclusively", func() {
		s.Do(func(a *Array) {
			Expect(a.Mount()).To(Succeed())
		})

		sig, err := s.Signature(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(sig).NotTo(BeZero())
	})
})

var _ = Describe("LogHook", func() {
	var (
		out   *bytes.Buffer
		array *Array
	)

	BeforeEach(func() {
		out = new(bytes.Buffer)
		array = MakeBuilder().Build("Array")
		array.AcceptHook(NewLogHook(log.New(out, "", 0)))
	})

	It("should log session events", func() {
		Expect(array.Mount()).To(Succeed())
		Expect(array.Mount()).NotTo(Succeed())

		Expect(out.String()).To(Equal(
			"Array: mount\n" +
				"Array: mount failed: array is already mounted\n"))
	})

	It("should log transfers", func() {
		Expect(array.Mount()).To(Succeed())
		out.Reset()

		_, err := array.Read(250, 10, make([]byte, 10))
		Expect(err).NotTo(HaveOccurred())

		Expect(out.String()).To(Equal("Array: read addr=250 len=10 blocks=2\n"))
	})
})
