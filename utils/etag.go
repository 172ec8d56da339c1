package utils

import (
	"fmt"
	"hash/fnv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a weak-cache validator from a document id and its last
// update time.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	h := fnv.New64a()
	h.Write([]byte(id.Hex()))
	h.Write([]byte(updatedAt.UTC().Format(time.RFC3339Nano)))
	return fmt.Sprintf("\"%x\"", h.Sum64())
}
