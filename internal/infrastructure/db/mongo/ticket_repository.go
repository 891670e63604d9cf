package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/itqan-cloud/service-desk/internal/core/domain"
)

const collectionTickets = "tickets"

// TicketRepository implements ports.TicketRepository on MongoDB.
type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

type ticketDoc struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty"`
	RequesterName     string              `bson:"requester_name"`
	RequesterLocation string              `bson:"requester_location"`
	Category          domain.Category     `bson:"category"`
	Item              string              `bson:"item"`
	Details           string              `bson:"details,omitempty"`
	Status            domain.TicketStatus `bson:"status"`
	CreatedAt         time.Time           `bson:"created_at"`
	DateKey           string              `bson:"date_key"`
	MonthKey          string              `bson:"month_key"`
}

func (d ticketDoc) toDomain() domain.Ticket {
	return domain.Ticket{
		ID:                d.ID.Hex(),
		RequesterName:     d.RequesterName,
		RequesterLocation: d.RequesterLocation,
		Category:          d.Category,
		Item:              d.Item,
		Details:           d.Details,
		Status:            d.Status,
		CreatedAt:         d.CreatedAt,
		DateKey:           d.DateKey,
		MonthKey:          d.MonthKey,
	}
}

// Create inserts a new ticket document and returns the store-assigned id.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := ticketDoc{
		RequesterName:     t.RequesterName,
		RequesterLocation: t.RequesterLocation,
		Category:          t.Category,
		Item:              t.Item,
		Details:           t.Details,
		Status:            t.Status,
		CreatedAt:         t.CreatedAt,
		DateKey:           t.DateKey,
		MonthKey:          t.MonthKey,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert ticket: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert ticket: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FetchOpen returns all New tickets in the given category, in store-native
// order.
func (r *TicketRepository) FetchOpen(ctx context.Context, category domain.Category) ([]domain.Ticket, error) {
	return r.find(ctx, bson.M{"category": category, "status": domain.StatusNew})
}

// SetStatus updates the ticket's status. An unknown or already-updated id
// matches zero documents, which is deliberately not an error: completion is
// idempotent and racing completions must both succeed.
func (r *TicketRepository) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never exist in the store; same silent no-op
		// as an unknown id.
		return nil
	}

	_, err = r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("set ticket status: %w", err)
	}
	return nil
}

// FetchByMonth returns all tickets written with the given month key.
func (r *TicketRepository) FetchByMonth(ctx context.Context, monthKey string) ([]domain.Ticket, error) {
	return r.find(ctx, bson.M{"month_key": monthKey})
}

// FetchByDate returns all tickets written with the given date key.
func (r *TicketRepository) FetchByDate(ctx context.Context, dateKey string) ([]domain.Ticket, error) {
	return r.find(ctx, bson.M{"date_key": dateKey})
}

func (r *TicketRepository) find(ctx context.Context, filter bson.M) ([]domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find tickets: %w", err)
	}
	defer cur.Close(ctx)

	var tickets []domain.Ticket
	for cur.Next(ctx) {
		var doc ticketDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode ticket: %w", err)
		}
		tickets = append(tickets, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// EnsureIndexes creates the indexes backing the open-queue and report reads.
func (r *TicketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "month_key", Value: 1}}},
		{Keys: bson.D{{Key: "date_key", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
