package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/fincalc/internal/config"
	"github.com/Dan9191/fincalc/internal/models"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const lookbackDays = 30

// Client fetches the key rate from the Central Bank of Russia DailyInfo service
type Client struct {
	url    string
	margin float64
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewClient initializes a new CBR client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url:    cfg.CBRURL,
		margin: cfg.BankMargin,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a SOAP request for the key rate over the last 30 days
func (c *Client) buildSOAPRequest() string {
	to := c.now()
	from := to.AddDate(0, 0, -lookbackDays)
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

// sendRequest posts the SOAP envelope and returns the raw response body
func (c *Client) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("CBR XML response: %d bytes", len(body))
	return body, nil
}

// parseXMLResponse extracts the most recent rate, which the service lists first
func parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(rateElement.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate %q: %w", rateElement.Text(), err)
	}
	return rate, nil
}

// FetchKeyRate retrieves the current key rate and derives the lending
// reference rate by adding the configured bank margin
func (c *Client) FetchKeyRate(ctx context.Context) (models.KeyRate, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest())
	if err != nil {
		return models.KeyRate{}, err
	}

	rate, err := parseXMLResponse(body)
	if err != nil {
		return models.KeyRate{}, err
	}

	kr := models.KeyRate{
		KeyRate:       rate,
		BankMargin:    c.margin,
		ReferenceRate: rate + c.margin,
		FetchedAt:     c.now().UTC(),
	}
	c.log.Infof("Retrieved key rate: %.2f%% (reference %.2f%% with %.2f%% bank margin)", kr.KeyRate, kr.ReferenceRate, kr.BankMargin)
	return kr, nil
}
