package binlookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/card-entry-service/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Verifier checks a completed front-segment digit string against an
// identification-number directory. A nil error means the prefix was
// recognized; the payload is not interpreted beyond that.
type Verifier interface {
	Verify(ctx context.Context, bin string) error
}

// ErrNotRecognized is returned when the directory definitively rejects a
// prefix, as opposed to a transient transport failure.
var ErrNotRecognized = errors.New("bin not recognized by directory")

// DirectoryClient handles integration with the upstream BIN directory
type DirectoryClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewDirectoryClient initializes a new BIN directory client
func NewDirectoryClient(cfg *config.Config, log *logrus.Logger) *DirectoryClient {
	return &DirectoryClient{
		url: cfg.BINLookupURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// buildSOAPRequest creates a SOAP request for a BIN lookup
func (c *DirectoryClient) buildSOAPRequest(bin string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<BinLookup xmlns="http://directory.card-entry.local/">
					<Bin>%s</Bin>
				</BinLookup>
			</soap12:Body>
		</soap12:Envelope>`, bin)
}

// sendRequest sends the SOAP request to the directory
func (c *DirectoryClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer([]byte(soapRequest)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://directory.card-entry.local/BinLookup")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	// Log the raw XML response for debugging
	c.log.Debugf("BIN directory XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts the lookup verdict from the XML response
func (c *DirectoryClient) parseXMLResponse(rawBody []byte) (bool, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return false, fmt.Errorf("failed to parse XML: %v", err)
	}

	result := doc.FindElement("//BinLookupResult")
	if result == nil {
		return false, fmt.Errorf("no lookup result found in XML")
	}

	validElement := result.FindElement("./Valid")
	if validElement == nil {
		return false, fmt.Errorf("valid element not found in XML")
	}

	return validElement.Text() == "true", nil
}

// Verify checks one BIN prefix against the upstream directory
func (c *DirectoryClient) Verify(ctx context.Context, bin string) error {
	soapRequest := c.buildSOAPRequest(bin)
	body, err := c.sendRequest(ctx, soapRequest)
	if err != nil {
		return err
	}

	valid, err := c.parseXMLResponse(body)
	if err != nil {
		return err
	}
	if !valid {
		return ErrNotRecognized
	}

	c.log.Infof("BIN %s recognized by directory", bin)
	return nil
}
