package cbr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/fincalc/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgr:diffgram xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
          <KeyRate xmlns="">
            <KR diffgr:id="KR1">
              <DT>2025-06-10T00:00:00+03:00</DT>
              <Rate>20.00</Rate>
            </KR>
            <KR diffgr:id="KR2">
              <DT>2025-06-09T00:00:00+03:00</DT>
              <Rate>21.00</Rate>
            </KR>
          </KeyRate>
        </diffgr:diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func newTestClient(url string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewClient(&config.Config{CBRURL: url, BankMargin: 5}, log)
	c.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchKeyRate(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "http://web.cbr.ru/KeyRate", r.Header.Get("SOAPAction"))
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, keyRateResponse)
	}))
	defer srv.Close()

	kr, err := newTestClient(srv.URL).FetchKeyRate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20.0, kr.KeyRate)
	assert.Equal(t, 5.0, kr.BankMargin)
	assert.Equal(t, 25.0, kr.ReferenceRate)
	assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), kr.FetchedAt)
	assert.Contains(t, gotBody, "<fromDate>2025-05-11</fromDate>")
	assert.Contains(t, gotBody, "<ToDate>2025-06-10</ToDate>")
}

func TestFetchKeyRate_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchKeyRate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 503")
}

func TestParseXMLResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr string
	}{
		{name: "first rate wins", body: keyRateResponse, want: 20},
		{name: "malformed xml", body: "<ValCurs><Record value=20>", wantErr: "failed to parse XML"},
		{name: "no rows", body: `<root><diffgram><KeyRate></KeyRate></diffgram></root>`, wantErr: "no key rate data"},
		{name: "no rate", body: `<root><diffgram><KeyRate><KR><DT>x</DT></KR></KeyRate></diffgram></root>`, wantErr: "rate element not found"},
		{name: "bad number", body: `<root><diffgram><KeyRate><KR><Rate>abc</Rate></KR></KeyRate></diffgram></root>`, wantErr: "failed to parse rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseXMLResponse([]byte(tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
