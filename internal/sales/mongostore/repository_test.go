package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/krishi-ledger/krishi-ledger/internal/platform/mongodb"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/sales/storetest"
)

func TestBuildFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(sales.Query{}))
}

func TestBuildFilter(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, ist)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, ist)

	filter := buildFilter(sales.Query{Area: "Takhatpur", Status: sales.StatusOverdue, From: &from, To: &to})
	assert.Equal(t, bson.M{
		"area":          "Takhatpur",
		"paymentStatus": "Overdue",
		"orderDispatchDate": bson.M{
			"$gte": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			"$lte": time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
	}, filter)
}

func TestBuildFilterOpenEndedRange(t *testing.T) {
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	filter := buildFilter(sales.Query{Product: "Urea", To: &to})
	assert.Equal(t, bson.M{"$lte": to}, filter["orderDispatchDate"])
	assert.Equal(t, "Urea", filter["productOrdered"])
}

func TestDocumentRoundTrip(t *testing.T) {
	due := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	sale := sales.NewSale(time.Date(2024, 2, 3, 18, 0, 0, 0, time.UTC), "Ramesh", "Mungeli", "Tractor", "Urea", 12, decimal.RequireFromString("4500.75"))
	sale.DueDate = &due
	sale.PaymentStatus = ""

	doc, err := toDocument(sale)
	require.NoError(t, err)
	assert.Equal(t, "Due", doc.PaymentStatus)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), doc.OrderDispatchDate)

	doc.ID = primitive.NewObjectID()
	back, err := fromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.True(t, back.TotalBillAmount.Equal(sale.TotalBillAmount))
	require.NotNil(t, back.DueDate)
	assert.Equal(t, due, *back.DueDate)
}

func TestDocumentRejectsUnknownStatus(t *testing.T) {
	sale := sales.NewSale(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), "Ramesh", "Mungeli", "Tractor", "Urea", 12, decimal.NewFromInt(100))
	sale.PaymentStatus = "overdue"

	_, err := toDocument(sale)
	assert.ErrorIs(t, err, sales.ErrInvalidStatus)
}

func TestParseID(t *testing.T) {
	_, err := parseID("nope")
	assert.ErrorIs(t, err, sales.ErrInvalidID)

	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

// TestRepositorySuite runs against a live server when MONGODB_TEST_URI is set.
func TestRepositorySuite(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := mongodb.Connect(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("krishi_ledger_test")
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	repo := NewRepository(db.Collection(Collection))
	require.NoError(t, repo.EnsureIndexes(ctx))

	suite.Run(t, &storetest.Suite{
		NewRepo: func() sales.Repository {
			_, err := db.Collection(Collection).DeleteMany(ctx, bson.M{})
			require.NoError(t, err)
			return repo
		},
		MissingID:   func() string { return primitive.NewObjectID().Hex() },
		MalformedID: "12345",
	})
}
