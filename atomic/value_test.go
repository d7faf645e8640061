package atomic_test

import (
	"sync"

	"github.com/nabbar/netreactor/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Value", func() {
	It("loads the zero value before any store", func() {
		v := atomic.NewValue[bool]()
		Expect(v.Load()).To(BeFalse())

		s := atomic.NewValue[string]()
		Expect(s.Load()).To(Equal(""))
	})

	It("stores and loads", func() {
		v := atomic.NewValue[int]()
		v.Store(42)
		Expect(v.Load()).To(Equal(42))
	})

	It("swaps, returning the previous value", func() {
		v := atomic.NewValue[string]()
		Expect(v.Swap("first")).To(Equal(""))
		Expect(v.Swap("second")).To(Equal("first"))
		Expect(v.Load()).To(Equal("second"))
	})

	It("compare-and-swaps against the zero value of an empty cell", func() {
		v := atomic.NewValue[bool]()
		Expect(v.CompareAndSwap(false, true)).To(BeTrue())
		Expect(v.Load()).To(BeTrue())
	})

	It("compare-and-swaps only when the current value matches", func() {
		v := atomic.NewValue[int]()
		v.Store(1)

		Expect(v.CompareAndSwap(2, 3)).To(BeFalse())
		Expect(v.Load()).To(Equal(1))

		Expect(v.CompareAndSwap(1, 3)).To(BeTrue())
		Expect(v.Load()).To(Equal(3))
	})

	It("is safe under concurrent store/load", func() {
		v := atomic.NewValue[int]()

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 1000; j++ {
					v.Store(n)
					_ = v.Load()
				}
			}(i)
		}
		wg.Wait()

		Expect(v.Load()).To(BeNumerically(">=", 0))
	})
})
