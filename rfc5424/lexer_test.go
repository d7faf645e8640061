package rfc5424_test

import (
	"github.com/nabbar/netreactor/rfc5424"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Lexer", func() {
	It("decodes a full message fed in one shot", func() {
		body := `<46>1 2024-01-01T00:00:00Z host app 123 ID1 [exampleSDID@32473 iut="3"] hello world`
		l := rfc5424.NewLexer()

		var got *rfc5424.SyslogMessage
		err := l.Feed([]byte(frame(body)), func(m *rfc5424.SyslogMessage) { got = m })

		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got.Priority).To(Equal("46"))
		Expect(got.Version).To(Equal("1"))
		Expect(got.Timestamp).To(Equal("2024-01-01T00:00:00Z"))
		Expect(got.Hostname).To(Equal("host"))
		Expect(got.AppName).To(Equal("app"))
		Expect(got.ProcessID).To(Equal("123"))
		Expect(got.MessageID).To(Equal("ID1"))
		Expect(got.Body).To(Equal("hello world"))
		Expect(l.Idle()).To(BeTrue())

		sd := got.StructuredData["exampleSDID@32473"]
		Expect(sd).NotTo(BeNil())
		Expect(sd.Fields["iut"].Value).To(Equal("3"))
	})

	It("decodes a message with no structured data", func() {
		body := "<13>1 2024-01-01T00:00:00Z host app - -  hi"
		l := rfc5424.NewLexer()

		var got *rfc5424.SyslogMessage
		err := l.Feed([]byte(frame(body)), func(m *rfc5424.SyslogMessage) { got = m })

		Expect(err).NotTo(HaveOccurred())
		Expect(got).NotTo(BeNil())
		Expect(got.Body).To(Equal("hi"))
		Expect(got.StructuredData).To(BeEmpty())
	})

	It("satisfies property 8: round-trip across arbitrary chunking", func() {
		body := `<46>1 2024-01-01T00:00:00Z host app 123 ID1 [ex@1 a="1"][ex@2 b="2"] tail message`
		raw := []byte(frame(body))

		for _, chunkSize := range []int{1, 2, 3, 7, 10, len(raw)} {
			l := rfc5424.NewLexer()
			var got *rfc5424.SyslogMessage

			for i := 0; i < len(raw); i += chunkSize {
				end := i + chunkSize
				if end > len(raw) {
					end = len(raw)
				}
				err := l.Feed(raw[i:end], func(m *rfc5424.SyslogMessage) { got = m })
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(got).NotTo(BeNil())
			Expect(got.Body).To(Equal("tail message"))
			Expect(got.StructuredData).To(HaveLen(2))
			Expect(l.Idle()).To(BeTrue())
		}
	})

	It("decodes a real rsyslogd fixture fed in 10-byte chunks", func() {
		body := `<46>1 2012-12-11T15:48:23.217459-06:00 tohru rsyslogd 6611 12512 ` +
			`[origin_1 software="rsyslogd" swVersion="7.2.2" x-pid="12297" x-info="http://www.rsyslog.com"]` +
			`[origin_2 software="rsyslogd" swVersion="7.2.2" x-pid="12297" x-info="http://www.rsyslog.com"] start`
		raw := []byte(frame(body))

		l := rfc5424.NewLexer()
		var got *rfc5424.SyslogMessage
		for i := 0; i < len(raw); i += 10 {
			end := i + 10
			if end > len(raw) {
				end = len(raw)
			}
			err := l.Feed(raw[i:end], func(m *rfc5424.SyslogMessage) { got = m })
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(got).NotTo(BeNil())
		Expect(got.Priority).To(Equal("46"))
		Expect(got.Version).To(Equal("1"))
		Expect(got.Timestamp).To(Equal("2012-12-11T15:48:23.217459-06:00"))
		Expect(got.Hostname).To(Equal("tohru"))
		Expect(got.AppName).To(Equal("rsyslogd"))
		Expect(got.ProcessID).To(Equal("6611"))
		Expect(got.MessageID).To(Equal("12512"))
		Expect(got.Body).To(Equal("start"))
		Expect(got.SDOrder).To(Equal([]string{"origin_1", "origin_2"}))

		for _, name := range got.SDOrder {
			sd := got.StructuredData[name]
			Expect(sd).NotTo(BeNil())
			Expect(sd.Fields["software"].Value).To(Equal("rsyslogd"))
			Expect(sd.Fields["swVersion"].Value).To(Equal("7.2.2"))
			Expect(sd.Fields["x-pid"].Value).To(Equal("12297"))
			Expect(sd.Fields["x-info"].Value).To(Equal("http://www.rsyslog.com"))
		}

		Expect(l.Idle()).To(BeTrue())
	})

	It("matches scenario (c): a partial frame needs more data rather than failing", func() {
		l := rfc5424.NewLexer()

		var got *rfc5424.SyslogMessage
		err := l.Feed([]byte("9 bad"), func(m *rfc5424.SyslogMessage) { got = m })
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())

		// ">" completes the PRI field (value "bad") within its 5-byte limit;
		// the lexer still has no full frame, and still must not error.
		err = l.Feed([]byte(">"), func(m *rfc5424.SyslogMessage) { got = m })
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())
	})

	It("fails with MalformedFrame when a limit is exhausted without its delimiter", func() {
		l := rfc5424.NewLexer()
		huge := make([]byte, limitOctetPlusOne())
		for i := range huge {
			huge[i] = '1'
		}

		err := l.Feed(huge, func(*rfc5424.SyslogMessage) {})
		Expect(err).To(HaveOccurred())
	})
})

func limitOctetPlusOne() int { return 10 }
