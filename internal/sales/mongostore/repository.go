// Package mongostore stores sales as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

// Collection is the default collection name.
const Collection = "sales"

type saleDocument struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	OrderDispatchDate time.Time            `bson:"orderDispatchDate"`
	VendorName        string               `bson:"vendorName"`
	Contact           string               `bson:"contact,omitempty"`
	Area              string               `bson:"area"`
	Transport         string               `bson:"transport"`
	TotalBillAmount   primitive.Decimal128 `bson:"totalBillAmount"`
	DueDate           *time.Time           `bson:"dueDate,omitempty"`
	ProductOrdered    string               `bson:"productOrdered"`
	QtyOrdered        int                  `bson:"qtyOrdered"`
	PaymentStatus     string               `bson:"paymentStatus"`
}

// Repository implements sales.Repository on a MongoDB collection.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository uses coll for every operation.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

var _ sales.Repository = (*Repository)(nil)

// EnsureIndexes creates the indexes the dashboard queries rely on.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderDispatchDate", Value: -1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "dueDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure sales indexes: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, sale sales.Sale) (string, error) {
	doc, err := toDocument(sale)
	if err != nil {
		return "", err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert sale: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *Repository) Get(ctx context.Context, id string) (*sales.Sale, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc saleDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sales.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	sale, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *Repository) List(ctx context.Context, q sales.Query) ([]sales.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDispatchDate", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, buildFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]sales.Sale, 0)
	for cur.Next(ctx) {
		var doc saleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sale: %w", err)
		}
		sale, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id string, sale sales.Sale) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	doc, err := toDocument(sale)
	if err != nil {
		return err
	}
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if res.MatchedCount == 0 {
		return sales.ErrNotFound
	}
	return nil
}

func (r *Repository) SetPaymentStatus(ctx context.Context, id string, status sales.PaymentStatus) error {
	if !status.Valid() {
		return sales.ErrInvalidStatus
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"paymentStatus": string(status)}})
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return sales.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if res.DeletedCount == 0 {
		return sales.ErrNotFound
	}
	return nil
}

// ReplaceAll clears the collection and inserts batch. MongoDB standalone
// servers have no transactions, so a failure part way leaves a partial set.
func (r *Repository) ReplaceAll(ctx context.Context, batch []sales.Sale) (int, error) {
	docs := make([]interface{}, 0, len(batch))
	for _, sale := range batch {
		doc, err := toDocument(sale)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("clear sales: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert sales: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// buildFilter turns the query into a find filter.
func buildFilter(q sales.Query) bson.M {
	filter := bson.M{}
	if q.Area != "" {
		filter["area"] = q.Area
	}
	if q.Product != "" {
		filter["productOrdered"] = q.Product
	}
	if q.Transport != "" {
		filter["transport"] = q.Transport
	}
	if q.Status != "" {
		filter["paymentStatus"] = string(q.Status)
	}
	if q.From != nil || q.To != nil {
		dateRange := bson.M{}
		if q.From != nil {
			dateRange["$gte"] = storedDate(*q.From)
		}
		if q.To != nil {
			dateRange["$lte"] = storedDate(*q.To)
		}
		filter["orderDispatchDate"] = dateRange
	}
	return filter
}

// storedDate places a civil date at UTC midnight, the form it is stored in.
func storedDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toDocument(sale sales.Sale) (saleDocument, error) {
	amount, err := primitive.ParseDecimal128(sale.TotalBillAmount.String())
	if err != nil {
		return saleDocument{}, fmt.Errorf("encode totalBillAmount: %w", err)
	}
	status, err := sales.ParsePaymentStatus(string(sale.PaymentStatus))
	if err != nil {
		return saleDocument{}, err
	}
	doc := saleDocument{
		OrderDispatchDate: storedDate(sale.OrderDispatchDate),
		VendorName:        sale.VendorName,
		Contact:           sale.Contact,
		Area:              sale.Area,
		Transport:         sale.Transport,
		TotalBillAmount:   amount,
		ProductOrdered:    sale.ProductOrdered,
		QtyOrdered:        sale.QtyOrdered,
		PaymentStatus:     string(status),
	}
	if sale.HasDueDate() {
		due := storedDate(*sale.DueDate)
		doc.DueDate = &due
	}
	return doc, nil
}

func fromDocument(doc saleDocument) (sales.Sale, error) {
	amount, err := decimal.NewFromString(doc.TotalBillAmount.String())
	if err != nil {
		return sales.Sale{}, fmt.Errorf("decode totalBillAmount: %w", err)
	}
	sale := sales.Sale{
		ID:                doc.ID.Hex(),
		OrderDispatchDate: doc.OrderDispatchDate.UTC(),
		VendorName:        doc.VendorName,
		Contact:           doc.Contact,
		Area:              doc.Area,
		Transport:         doc.Transport,
		TotalBillAmount:   amount,
		ProductOrdered:    doc.ProductOrdered,
		QtyOrdered:        doc.QtyOrdered,
		PaymentStatus:     sales.PaymentStatus(doc.PaymentStatus),
	}
	if doc.DueDate != nil {
		due := doc.DueDate.UTC()
		sale.DueDate = &due
	}
	return sale, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, sales.ErrInvalidID
	}
	return oid, nil
}
