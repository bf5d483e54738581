package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/e2e/helpers"
	"github.com/MichalMitros/catalog-bridge/internal/auth"
	"github.com/MichalMitros/catalog-bridge/internal/connector"
	"github.com/MichalMitros/catalog-bridge/internal/handler"
	"github.com/MichalMitros/catalog-bridge/internal/images"
	"github.com/MichalMitros/catalog-bridge/internal/importer"
	"github.com/MichalMitros/catalog-bridge/internal/mapping"
	"github.com/MichalMitros/catalog-bridge/internal/normalizer"
	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/MichalMitros/catalog-bridge/internal/platform/rabbitmq"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage"
	"github.com/MichalMitros/catalog-bridge/internal/platform/storage/storagetesting"
	"github.com/MichalMitros/catalog-bridge/internal/reconciler"
	"github.com/MichalMitros/catalog-bridge/pkg/v1/commander"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	exchange = "cb-e2e"
	sourceID = "inspirion"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	os.Exit(m.Run())
}

func TestE2E(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}

type E2ETestSuite struct {
	suite.Suite
	connection *amqp.Connection
	channel    *amqp.Channel
	db         *sql.DB
}

func (s *E2ETestSuite) SetupSuite() {
	var err error

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		s.T().Skip("please provide RabbitMQ URL via RABBITMQ_URL environment variable")
	}

	s.db = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.db)

	if err := storage.NewPostgres(s.db).EnsureAttributes(context.Background(), normalizer.StandardAttributes); err != nil {
		s.Require().FailNow("can't register attributes", err)
	}

	if s.connection, err = amqp.Dial(rabbitURL); err != nil {
		s.Require().FailNow("can't open RabbitMQ connection", err)
	}

	if s.channel, err = s.connection.Channel(); err != nil {
		s.Require().FailNow("can't open RabbitMQ channel", err)
	}
}

func (s *E2ETestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.db)
	if err := s.db.Close(); err != nil {
		s.FailNow("can't close Postgres connection", err)
	}

	if err := s.channel.Close(); err != nil {
		s.FailNow("can't close RabbitMQ channel", err)
	}

	if err := s.connection.Close(); err != nil {
		s.FailNow("can't close RabbitMQ connection", err)
	}
}

func (s *E2ETestSuite) TestSourceImport() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Prepare test data
	products := helpers.GenerateTestData(s.T(), 45)
	firstPayloadProducts := products[:25]
	// last 35 products with changed names, so 10 existing products get updated and 20 new are created
	secondPayloadProducts := lo.Map(products[10:], func(p models.CanonicalProduct, _ int) models.CanonicalProduct {
		p.Name += " v2"
		return p
	})

	// Mock source API
	httpSrv, setPayload := helpers.PrepareMockedHTTPServer(s.T(), [][]byte{
		helpers.ProductsToXML(s.T(), firstPayloadProducts),
		helpers.ProductsToXML(s.T(), secondPayloadProducts),
	})
	setPayload(0)

	// Prepare importer
	mappings, err := mapping.Default()
	s.Require().NoError(err)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	registry := connector.NewRegistry([]models.SourceCredential{{
		ID:       sourceID,
		Kind:     models.KindAPIXML,
		Enabled:  true,
		Host:     httpSrv.URL,
		CacheDir: sourceID,
		Endpoints: map[models.PayloadKind]string{
			models.PayloadProducts: "products.xml",
		},
	}}, mappings, s.T().TempDir(), auth.NewMemoryCache(), &logger)

	store := storage.NewPostgres(s.db)
	imp := importer.NewImporter(
		importer.ConnectorFunc(func(sourceID string, maxAge time.Duration) (importer.Connector, error) {
			conn, err := registry.Connector(sourceID, maxAge)
			if err != nil {
				return nil, err
			}
			return conn, nil
		}),
		reconciler.NewEngine(store, images.NewImporter(store, &logger), normalizer.New(mappings), &logger),
		store,
		models.ImportOptions{UpdateExisting: true, ImportCategories: true},
		&logger,
	)

	// Prepare RMQ client and commander
	queue := fmt.Sprintf("cb-e2e-test-%d", rand.Int63n(100000))
	routingKey := fmt.Sprintf("cb.cmd.e2e.%d", rand.Int63n(100000))

	rmq, err := rabbitmq.NewRabbitMQ(s.connection, exchange)
	s.Require().NoError(err, "can't create RabbitMQ client")
	s.Require().NoError(rmq.Bind(queue, routingKey), "can't bind queue")
	helpers.DeleteRMQQueue(s.T(), s.channel, queue)

	publisher := commander.NewImportCommander(commander.NewRabbitMQSender(rmq, routingKey))

	// Prepare and run handler
	han := handler.NewHandler(rmq, imp, registry.Enabled(), &logger)
	s.Require().NoError(han.Start(ctx, queue), "handler shouldn't return any error")

	// Send import command
	s.Require().NoError(publisher.SendImportCommand(ctx, sourceID), "can't publish import command")

	firstRun := helpers.WaitForRuns(s.T(), s.db, sourceID, 1)[0]

	s.True(*firstRun.Success, "first run should succeed")
	s.Equal(int32(25), firstRun.Total)
	s.Equal(int32(25), firstRun.Imported, "should import all products")
	s.Equal(int32(0), firstRun.Updated)
	s.Equal(int32(0), firstRun.Errors)
	assertProducts(s.T(), s.db, firstPayloadProducts)

	// Second iteration, import of all enabled sources
	setPayload(1)
	s.Require().NoError(publisher.SendImportCommand(ctx, ""), "can't publish import command")

	secondRun := helpers.WaitForRuns(s.T(), s.db, sourceID, 2)[1]

	// Cancel context to stop consumer
	cancel()

	s.True(*secondRun.Success, "second run should succeed")
	s.Equal(int32(35), secondRun.Total)
	s.Equal(int32(20), secondRun.Imported, "should import new products")
	s.Equal(int32(15), secondRun.Updated, "should update existing products")
	s.Equal(int32(0), secondRun.Errors)
	s.Equal(secondRun.Total, secondRun.Imported+secondRun.Updated+secondRun.Skipped+secondRun.Errors)
	assertProducts(s.T(), s.db, products[:10])
	assertProducts(s.T(), s.db, secondPayloadProducts)

	logs := lo.Filter(strings.Split(buf.String(), "\n"), func(log string, _ int) bool {
		return strings.Contains(log, `"operation":"import"`)
	})
	assertLogsMessages(s.T(), []string{"import started", "import finished", "import started", "import finished"}, logs)
}

// assertLogsMessages is helper function which unmarshals log json and asserts message.
func assertLogsMessages(t *testing.T, expected []string, actual []string) {
	t.Helper()

	require.Len(t, actual, len(expected), "incorrect number of logs")

	for ix, exp := range expected {
		var log struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(actual[ix]), &log); err != nil {
			require.FailNow(t, "can't unmarshal json log", err)
		}

		assert.Equalf(t, exp, log.Message, "log at index %d is incorrect", ix)
	}
}

// assertProducts is helper function for comparing stored catalog entries with source products.
func assertProducts(t *testing.T, db *sql.DB, expected []models.CanonicalProduct) {
	t.Helper()

	for ix := range expected {
		exp := &expected[ix]
		stored := storage.FromDBProduct(lo.ToPtr(storagetesting.GetProduct(t, db, exp.SKU)))

		assert.Equalf(t, exp.Name, stored.Name, "product %s has incorrect name", exp.SKU)
		assert.Equalf(t, exp.Description, stored.Description, "product %s has incorrect description", exp.SKU)
		assert.Truef(t, exp.Price.Equal(stored.Price), "product %s has incorrect price %s", exp.SKU, stored.Price)
		assert.Equalf(t, exp.StockQuantity, stored.StockQuantity, "product %s has incorrect stock", exp.SKU)
		assert.Equalf(t, sourceID, stored.SourceID, "product %s has incorrect source", exp.SKU)
	}
}
