package mdadm

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/jbodsim/jbod"
	"github.com/sarchlab/jbodsim/sim"
)

const diskSize = jbod.DefaultDiskSize

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

var _ = Describe("Array", func() {
	var (
		array    *Array
		capacity uint32
	)

	BeforeEach(func() {
		array = MakeBuilder().Build("Array")
		capacity = uint32(array.Capacity())
	})

	mountWritable := func() {
		Expect(array.Mount()).To(Succeed())
		Expect(array.GrantWritePermission()).To(Succeed())
	}

	Context("session", func() {
		It("should start unmounted without permission", func() {
			Expect(array.Mounted()).To(BeFalse())
			Expect(array.WritePermitted()).To(BeFalse())
		})

		It("should fail the second mount and stay mounted", func() {
			Expect(array.Mount()).To(Succeed())

			Expect(array.Mount()).To(MatchError(ErrAlreadyMounted))
			Expect(array.Mounted()).To(BeTrue())
		})

		It("should fail to unmount when unmounted", func() {
			Expect(array.Unmount()).To(MatchError(ErrAlreadyUnmounted))
		})

		It("should cycle mount and unmount", func() {
			for i := 0; i < 3; i++ {
				Expect(array.Mount()).To(Succeed())
				Expect(array.Unmount()).To(Succeed())
			}
		})

		It("should grant and revoke write permission once", func() {
			Expect(array.Mount()).To(Succeed())

			Expect(array.GrantWritePermission()).To(Succeed())
			Expect(array.GrantWritePermission()).
				To(MatchError(ErrPermissionAlreadyGranted))
			Expect(array.RevokeWritePermission()).To(Succeed())
			Expect(array.RevokeWritePermission()).
				To(MatchError(ErrPermissionAlreadyRevoked))
		})

		It("should revoke write permission on unmount", func() {
			mountWritable()

			Expect(array.Unmount()).To(Succeed())
			Expect(array.WritePermitted()).To(BeFalse())

			Expect(array.Mount()).To(Succeed())
			_, err := array.Write(0, 1, []byte{1})
			Expect(err).To(MatchError(ErrNoPermission))
		})

		It("should apply a permission granted while unmounted on mount", func() {
			Expect(array.GrantWritePermission()).To(Succeed())
			Expect(array.Mount()).To(Succeed())

			n, err := array.Write(0, 1, []byte{1})

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})
	})

	Context("read", func() {
		It("should fail when unmounted", func() {
			buf := make([]byte, 16)

			n, err := array.Read(0, 16, buf)

			Expect(n).To(Equal(0))
			Expect(err).To(MatchError(ErrUnmounted))
		})

		It("should read the fill pattern", func() {
			Expect(array.Mount()).To(Succeed())
			buf := make([]byte, 1024)

			n, err := array.Read(3*diskSize, 1024, buf)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1024))
			Expect(buf).To(Equal(repeat(jbod.PatternMid, 1024)))
		})

		It("should concatenate bytes across a disk boundary", func() {
			Expect(array.Mount()).To(Succeed())
			buf := make([]byte, 20)

			n, err := array.Read(diskSize-10, 20, buf)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(20))
			Expect(buf[:10]).To(Equal(repeat(jbod.PatternDisk0, 10)))
			Expect(buf[10:]).To(Equal(repeat(jbod.PatternDisk1, 10)))
		})

		It("should succeed with zero length anywhere", func() {
			Expect(array.Mount()).To(Succeed())

			n, err := array.Read(capacity+100, 0, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(0))
		})

		It("should reject nil and short buffers", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Read(0, 8, nil)
			Expect(err).To(MatchError(ErrBadBuffer))

			_, err = array.Read(0, 8, make([]byte, 4))
			Expect(err).To(MatchError(ErrBadBuffer))
		})

		It("should check the size limit before the buffer length", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Read(0, 2000, make([]byte, 10))
			Expect(err).To(MatchError(ErrLengthTooLarge))

			_, err = array.Read(capacity-4, 8, make([]byte, 4))
			Expect(err).To(MatchError(ErrOutOfRange))
		})

		It("should reject transfers larger than 1024 bytes", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Read(0, 1025, make([]byte, 1025))

			Expect(err).To(MatchError(ErrLengthTooLarge))
		})

		It("should accept a range ending exactly at the capacity", func() {
			Expect(array.Mount()).To(Succeed())
			buf := make([]byte, 1024)

			n, err := array.Read(capacity-1024, 1024, buf)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1024))
			Expect(buf[1023]).To(Equal(jbod.PatternFor(15)))
		})

		It("should reject a range ending one byte past the capacity", func() {
			Expect(array.Mount()).To(Succeed())

			n, err := array.Read(capacity-1023, 1024, make([]byte, 1024))

			Expect(n).To(Equal(0))
			Expect(err).To(MatchError(ErrOutOfRange))
		})

		It("should not overflow on the largest address", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Read(0xffffffff, 2, make([]byte, 2))

			Expect(err).To(MatchError(ErrOutOfRange))
		})
	})

	Context("write", func() {
		It("should fail when unmounted", func() {
			n, err := array.Write(0, 4, []byte{1, 2, 3, 4})

			Expect(n).To(Equal(0))
			Expect(err).To(MatchError(ErrUnmounted))
		})

		It("should fail without permission and leave data untouched", func() {
			Expect(array.Mount()).To(Succeed())

			n, err := array.Write(0, 4, []byte{1, 2, 3, 4})
			Expect(n).To(Equal(0))
			Expect(err).To(MatchError(ErrNoPermission))

			buf := make([]byte, 4)
			_, err = array.Read(0, 4, buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf).To(Equal(repeat(jbod.PatternDisk0, 4)))
		})

		It("should check permission before zero length", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Write(0, 0, nil)

			Expect(err).To(MatchError(ErrNoPermission))
		})

		DescribeTable("round trip",
			func(addr uint32, length int) {
				mountWritable()

				data := make([]byte, length)
				for i := range data {
					data[i] = byte(i*7 + 3)
				}

				n, err := array.Write(addr, uint32(length), data)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(length))

				buf := make([]byte, length)
				n, err = array.Read(addr, uint32(length), buf)
				Expect(err).NotTo(HaveOccurred())
				Expect(n).To(Equal(length))
				Expect(buf).To(Equal(data))
			},
			Entry("inside one block", uint32(17), 100),
			Entry("one aligned block", uint32(512), 256),
			Entry("across blocks", uint32(200), 700),
			Entry("across disks", uint32(diskSize-300), 1024),
			Entry("at the end", uint32(16*diskSize-1024), 1024),
		)

		It("should not touch bytes around the written range", func() {
			mountWritable()

			_, err := array.Write(300, 10, repeat(0x11, 10))
			Expect(err).NotTo(HaveOccurred())

			buf := make([]byte, 30)
			_, err = array.Read(290, 30, buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf[:10]).To(Equal(repeat(jbod.PatternDisk0, 10)))
			Expect(buf[10:20]).To(Equal(repeat(0x11, 10)))
			Expect(buf[20:]).To(Equal(repeat(jbod.PatternDisk0, 10)))
		})

		It("should reset data on remount", func() {
			mountWritable()

			_, err := array.Write(diskSize-5, 10, repeat(0x42, 10))
			Expect(err).NotTo(HaveOccurred())

			Expect(array.Unmount()).To(Succeed())
			Expect(array.Mount()).To(Succeed())

			buf := make([]byte, 10)
			_, err = array.Read(diskSize-5, 10, buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf[:5]).To(Equal(repeat(jbod.PatternDisk0, 5)))
			Expect(buf[5:]).To(Equal(repeat(jbod.PatternDisk1, 5)))
		})
	})

	Context("signature", func() {
		It("should change when the block changes", func() {
			mountWritable()

			before, err := array.Signature(2 * diskSize)
			Expect(err).NotTo(HaveOccurred())

			same, err := array.Signature(3 * diskSize)
			Expect(err).NotTo(HaveOccurred())
			Expect(same).To(Equal(before))

			_, err = array.Write(2*diskSize+5, 1, []byte{0})
			Expect(err).NotTo(HaveOccurred())

			after, err := array.Signature(2 * diskSize)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).NotTo(Equal(before))
		})

		It("should reject addresses past the end", func() {
			Expect(array.Mount()).To(Succeed())

			_, err := array.Signature(capacity)

			Expect(err).To(MatchError(ErrOutOfRange))
		})
	})

	Context("hooks", func() {
		It("should report sessions and transfers", func() {
			var ctxs []sim.HookCtx
			array.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
				ctxs = append(ctxs, ctx)
			}))

			Expect(array.Mount()).To(Succeed())
			_, err := array.Read(250, 10, make([]byte, 10))
			Expect(err).NotTo(HaveOccurred())

			Expect(ctxs).To(HaveLen(2))
			Expect(ctxs[0].Pos).To(BeIdenticalTo(HookPosSession))
			Expect(ctxs[0].Item).To(Equal(EventMount))
			Expect(ctxs[1].Pos).To(BeIdenticalTo(HookPosTransfer))

			t := ctxs[1].Item.(Transfer)
			Expect(t.Kind).To(Equal(TransferRead))
			Expect(t.Chunks).To(HaveLen(2))
		})
	})
})

var _ = Describe("Array with a small geometry", func() {
	var array *Array

	BeforeEach(func() {
		array = MakeBuilder().
			WithGeometry(jbod.Geometry{NumDisks: 2, BlocksPerDisk: 4, BlockSize: 8}).
			WithMaxTransfer(64).
			Build("Small")
	})

	It("should address the whole capacity in one transfer", func() {
		Expect(array.Mount()).To(Succeed())
		Expect(array.GrantWritePermission()).To(Succeed())

		data := make([]byte, 64)
		for i := range data {
			data[i] = byte(i)
		}

		n, err := array.Write(0, 64, data)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(64))

		buf := make([]byte, 64)
		_, err = array.Read(0, 64, buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf).To(Equal(data))
	})

	It("should use the configured transfer limit", func() {
		Expect(array.Mount()).To(Succeed())

		_, err := array.Read(0, 65, make([]byte, 65))

		Expect(err).To(MatchError(ErrLengthTooLarge))
	})
})
