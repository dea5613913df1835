package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber builds a human-readable order reference such as
// VST-20240311-7F3A9C2B. The date prefix keeps references sortable at a
// glance; the uuid fragment keeps them unique.
func GenerateOrderNumber(at time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("VST-%s-%s", at.Format("20060102"), fragment)
}
