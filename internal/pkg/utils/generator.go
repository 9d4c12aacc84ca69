package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"medreport-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateReportID returns a process-unique report token.
func GenerateReportID() string {
	return constvars.REPORT_ID_PREFIX + uuid.NewString()
}

func GenerateObjectName(pseudoID, fileExtension string) string {
	timestamp := time.Now().Format("20060102_150405.000000000")
	return fmt.Sprintf("report_%s_%s%s", pseudoID, timestamp, fileExtension)
}

// SubmissionDigest keys the idempotency cache: the same source submitted by
// the same caller maps to the same terminal result.
func SubmissionDigest(pseudoID string, source []byte) string {
	h := sha256.New()
	h.Write([]byte(pseudoID))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
