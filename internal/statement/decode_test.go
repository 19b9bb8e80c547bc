package statement_test

import (
	"github.com/frahmantamala/household-finance/internal/statement"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/encoding/korean"
	xunicode "golang.org/x/text/encoding/unicode"
)

var _ = Describe("Decode", func() {
	const text = "날짜,금액\n2024-01-15,50000\n"

	It("strips a UTF-8 byte order mark", func() {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(text)...)
		out, err := statement.Decode(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(text))
	})

	It("decodes UTF-16LE with a byte order mark", func() {
		data, err := xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM).NewEncoder().Bytes([]byte(text))
		Expect(err).NotTo(HaveOccurred())
		Expect(data[:2]).To(Equal([]byte{0xFF, 0xFE}))

		out, err := statement.Decode(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(text))
	})

	It("decodes UTF-16BE with a byte order mark", func() {
		data, err := xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM).NewEncoder().Bytes([]byte(text))
		Expect(err).NotTo(HaveOccurred())
		Expect(data[:2]).To(Equal([]byte{0xFE, 0xFF}))

		out, err := statement.Decode(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(text))
	})

	It("accepts plain UTF-8 that contains Hangul", func() {
		out, err := statement.Decode([]byte(text))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(text))
	})

	It("accepts plain UTF-8 with only Latin content", func() {
		out, err := statement.Decode([]byte("date,amount\n2024-01-15,100\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HavePrefix("date,amount"))
	})

	It("falls back to EUC-KR for legacy exports", func() {
		data, err := korean.EUCKR.NewEncoder().Bytes([]byte(text))
		Expect(err).NotTo(HaveOccurred())

		out, err := statement.Decode(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(text))
	})

	It("never fails on empty input", func() {
		out, err := statement.Decode(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
	})
})
