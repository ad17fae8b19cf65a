package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"path/filepath"
	"time"
)

const (
	dashboardPrefix = "gp-ui-"
	recordPrefix    = "/additionalData/"
	leasePrefix     = "/locks/"
)

// DashboardAdmin is the login created on every dashboard instance.
const DashboardAdmin = "admin"

func DashboardInstance(instanceID string) string {
	return dashboardPrefix + instanceID
}

func CredentialRecord(instanceID string) string {
	return recordPrefix + instanceID
}

// InstanceLease is the store path guarding concurrent changes to one instance.
func InstanceLease(instanceID string) string {
	return leasePrefix + instanceID
}

// ReportFile returns a fresh path for the scheduler's launch report.
func ReportFile(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("output-%d-%04d.conf", now.UnixMilli(), suffix()))
}

func suffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return time.Now().UnixNano() % 10000
	}
	return n.Int64()
}
