package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/todowa/domain"
)

const (
	EntitySnapshot = "snapshot"

	OperationReplace = "replace"
	OperationClear   = "clear"
)

// Item is a pending mirror write, kept until the mirror acknowledges it.
type Item struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"profile_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data,omitempty"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

// SnapshotItem encodes a snapshot as a replace operation for profileID.
func SnapshotItem(profileID string, snapshot domain.Snapshot) (Item, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ProfileID: profileID,
		Entity:    EntitySnapshot,
		Operation: OperationReplace,
		Data:      data,
	}, nil
}

// ClearItem is a clear operation for profileID. It carries no payload.
func ClearItem(profileID string) Item {
	return Item{
		ProfileID: profileID,
		Entity:    EntitySnapshot,
		Operation: OperationClear,
	}
}

// Snapshot decodes the payload of a snapshot item.
func (i Item) Snapshot() (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if len(i.Data) == 0 {
		return snapshot, domain.ErrInvalidPayload
	}
	if err := json.Unmarshal(i.Data, &snapshot); err != nil {
		return snapshot, domain.WrapError(domain.ErrCodeInvalid, "decode buffered snapshot", err)
	}
	return snapshot, nil
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}

func (i Item) sameTarget(other Item) bool {
	return i.ProfileID == other.ProfileID && i.Entity == other.Entity
}
