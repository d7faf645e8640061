package rerr_test

import (
	"errors"

	"github.com/nabbar/netreactor/rerr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CodeError", func() {
	It("carries a stable message", func() {
		Expect(rerr.MalformedFrame.Message()).To(Equal("malformed frame"))
	})

	It("wraps parents and exposes them through Unwrap", func() {
		root := errors.New("recv: connection reset")
		e := rerr.IoReadFailed.Error(root)

		Expect(e.Code()).To(Equal(rerr.IoReadFailed))
		Expect(e.HasCode(rerr.IoReadFailed)).To(BeTrue())
		Expect(errors.Is(e, root)).To(BeTrue())
	})

	It("formats with Errorf", func() {
		e := rerr.InvalidState.Errorf("reactor already running on %s", "0.0.0.0:514")
		Expect(e.Error()).To(ContainSubstring("already running"))
	})
})
