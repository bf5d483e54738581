package helpers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models/modelstesting"
	pgmodels "github.com/MichalMitros/catalog-bridge/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
	runTimeout  = time.Minute
)

// WaitForRuns is blocking helper function, returns runs of source after n of them are finished.
func WaitForRuns(t *testing.T, queryable qrm.Queryable, sourceID string, n int) []pgmodels.SourceRun {
	t.Helper()

	deadline := time.After(runTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "run wasn't finished in time", sourceID)
		case <-time.After(250 * time.Millisecond):
		}

		runs := storagetesting.GetRuns(t, queryable, sourceID)
		if len(runs) >= n && runs[n-1].FinishedAt != nil {
			return runs
		}
	}
}

// PrepareMockedHTTPServer is helper function for mocking source API serving products payload.
// Returns function for setting payload to return, payload number is from 0 to len(payloads) exclusive.
func PrepareMockedHTTPServer(t *testing.T, payloads [][]byte) (*httptest.Server, func(int)) {
	t.Helper()

	var payloadIx atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.Header().Add(contentType, "application/xml")
		wrt.WriteHeader(http.StatusOK)
		_, _ = wrt.Write(payloads[payloadIx.Load()])
	}))

	t.Cleanup(srv.Close)

	return srv, func(i int) { payloadIx.Store(int32(i)) }
}

// DeleteRMQQueue is helper function for deleting RMQ queue after test is finished.
func DeleteRMQQueue(t *testing.T, channel *amqp.Channel, queueName string) {
	t.Helper()

	t.Cleanup(func() {
		if _, err := channel.QueueDelete(queueName, false, false, false); err != nil {
			t.Errorf("can't delete queue %s: %s", queueName, err)
		}
	})
}

// GenerateTestData generates n products with sku E2E-<ix> for ix in [1;n], without images.
func GenerateTestData(t *testing.T, n int) []models.CanonicalProduct {
	t.Helper()

	results := make([]models.CanonicalProduct, n)
	for ix := 0; ix < n; ix++ {
		results[ix] = modelstesting.FakeProduct(func(p *models.CanonicalProduct) {
			p.SKU = fmt.Sprintf("E2E-%d", ix+1)
			p.SourceNativeID = fmt.Sprint(ix + 1)
			p.CategoryPath = p.CategoryPath[:1]
			p.ImageRefs = nil
		})
	}

	return results
}

type xmlProduct struct {
	ID          string `xml:"id"`
	SKU         string `xml:"sku"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Price       string `xml:"price"`
	Stock       *int   `xml:"stock_quantity,omitempty"`
	Category    string `xml:"categories>category"`
	Color       string `xml:"color"`
	Material    string `xml:"material"`
}

// ProductsToXML is helper function which encodes products as products payload.
func ProductsToXML(t *testing.T, products []models.CanonicalProduct) []byte {
	t.Helper()

	payload := struct {
		XMLName  xml.Name     `xml:"products"`
		Products []xmlProduct `xml:"product"`
	}{}

	for ix := range products {
		p := &products[ix]
		payload.Products = append(payload.Products, xmlProduct{
			ID:          p.SourceNativeID,
			SKU:         p.SKU,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			Stock:       p.StockQuantity,
			Category:    p.CategoryPath[0],
			Color:       p.Attributes["color"],
			Material:    p.Attributes["material"],
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(payload); err != nil {
		require.FailNow(t, "can't encode products to xml", err)
	}

	return buf.Bytes()
}
