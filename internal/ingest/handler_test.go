package ingest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/ingest"
	"github.com/frahmantamala/household-finance/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	got    *ingest.Upload
	result *ingest.Result
	err    error
}

func (s *stubService) Ingest(ctx context.Context, upload ingest.Upload) (*ingest.Result, error) {
	s.got = &upload
	return s.result, s.err
}

func multipartRequest(field, filename, contentType string, content []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(writer.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body.Error.Code
}

var _ = Describe("Handler", func() {
	var (
		stub    *stubService
		handler *ingest.Handler
	)

	BeforeEach(func() {
		stub = &stubService{result: &ingest.Result{Success: true, Total: 1, Inserted: 1, Months: []string{"2024-01"}}}
		handler = ingest.NewHandler(transport.NewBaseHandler(newLogger()), stub, 64)
	})

	It("passes a CSV upload to the service", func() {
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("file", "통장.csv", "application/octet-stream", []byte("날짜,금액\n")))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.got).NotTo(BeNil())
		Expect(stub.got.FileName).To(Equal("통장.csv"))
		Expect(string(stub.got.Data)).To(Equal("날짜,금액\n"))

		var result ingest.Result
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Inserted).To(Equal(1))
	})

	It("accepts a text/csv part regardless of its name", func() {
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("file", "export", "text/csv; charset=utf-8", []byte("a")))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects a non-CSV file", func() {
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("file", "photo.png", "image/png", []byte("x")))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeNotCSV)))
		Expect(stub.got).To(BeNil())
	})

	It("rejects a request without a file", func() {
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("", "", "", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeMissingFile)))
	})

	It("rejects a file over the size limit", func() {
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("file", "big.csv", "text/csv", bytes.Repeat([]byte("a"), 65)))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeFileTooLarge)))
	})

	It("maps service errors to their status", func() {
		stub.err = internal.ErrNoValidRows
		rec := httptest.NewRecorder()
		handler.Upload(rec, multipartRequest("file", "jan.csv", "text/csv", []byte("a")))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeNoValidRows)))
	})
})
