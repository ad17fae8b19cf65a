package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/imamik/gearpump-broker/internal/platform/catalog"
	"github.com/imamik/gearpump-broker/internal/platform/rest"
)

// InstanceState is a lifecycle state reported by the catalog.
type InstanceState string

const (
	StateRunning InstanceState = "RUNNING"
	StateStopped InstanceState = "STOPPED"
)

// Metadata keys understood by the dashboard image.
const (
	MetaPlanID          = "PLAN_ID"
	MetaUsername        = "USERNAME"
	MetaPassword        = "PASSWORD"
	MetaGearpumpMaster  = "GEARPUMP_MASTER"
	MetaUAAClientID     = "UAA_CLIENT_ID"
	MetaUAAClientSecret = "UAA_CLIENT_SECRET"
)

// CatalogAPI is the catalog service-instance API.
type CatalogAPI interface {
	CreateService(ctx context.Context, req catalog.CreateServiceRequest) (*catalog.Service, error)
	GetService(ctx context.Context, id string) (*catalog.Service, error)
	StopService(ctx context.Context, id string) error
	DeleteService(ctx context.Context, id string) error
}

// OfferingSource resolves the dashboard offering.
type OfferingSource interface {
	Resolve(ctx context.Context) (catalog.OfferingRef, error)
	Invalidate()
}

// InstanceSpec describes a dashboard instance to create.
type InstanceSpec struct {
	Name            string
	SpaceID         string
	OrgID           string
	Username        string
	Password        string
	ClusterEndpoint string
	OAuthClientName string
}

// InstanceManager manages dashboard instances in the catalog.
type InstanceManager struct {
	api       CatalogAPI
	offerings OfferingSource
	log       logr.Logger
}

// NewInstanceManager creates an InstanceManager.
func NewInstanceManager(api CatalogAPI, offerings OfferingSource, log logr.Logger) *InstanceManager {
	return &InstanceManager{api: api, offerings: offerings, log: log}
}

// CreateInstance creates a dashboard instance and returns its id.
func (m *InstanceManager) CreateInstance(ctx context.Context, spec InstanceSpec) (string, error) {
	ref, err := m.offerings.Resolve(ctx)
	if err != nil {
		return "", err
	}

	svc, err := m.api.CreateService(ctx, catalog.CreateServiceRequest{
		Name:       spec.Name,
		OfferingID: ref.OfferingID,
		PlanID:     ref.PlanID,
		SpaceID:    spec.SpaceID,
		OrgID:      spec.OrgID,
		Metadata: []catalog.MetadataEntry{
			{Key: MetaPlanID, Value: ref.PlanID},
			{Key: MetaUsername, Value: spec.Username},
			{Key: MetaPassword, Value: spec.Password},
			{Key: MetaGearpumpMaster, Value: spec.ClusterEndpoint},
			{Key: MetaUAAClientID, Value: spec.OAuthClientName},
			{Key: MetaUAAClientSecret, Value: spec.Password},
		},
	})
	if err != nil {
		// the cached offering may have been removed or replaced
		if rest.IsNotFound(err) || rest.IsStatus(err, http.StatusBadRequest) {
			m.offerings.Invalidate()
		}
		return "", err
	}
	if svc.ID == "" {
		return "", errors.New("catalog response carries no instance id")
	}

	m.log.Info("dashboard instance created", "name", spec.Name, "dashboardInstanceId", svc.ID)
	return svc.ID, nil
}

// StopInstance stops an instance. It returns false when the instance does not exist.
func (m *InstanceManager) StopInstance(ctx context.Context, id string) (bool, error) {
	if err := m.api.StopService(ctx, id); err != nil {
		if rest.IsNotFound(err) {
			m.log.Info("dashboard instance not found, nothing to stop", "dashboardInstanceId", id)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteInstance deletes an instance. A missing instance counts as deleted.
func (m *InstanceManager) DeleteInstance(ctx context.Context, id string) error {
	if err := m.api.DeleteService(ctx, id); err != nil {
		if rest.IsNotFound(err) {
			m.log.Info("dashboard instance already deleted", "dashboardInstanceId", id)
			return nil
		}
		return err
	}
	m.log.Info("dashboard instance deleted", "dashboardInstanceId", id)
	return nil
}

// GetInstance fetches an instance. found is false when it does not exist.
func (m *InstanceManager) GetInstance(ctx context.Context, id string) (*catalog.Service, bool, error) {
	svc, err := m.api.GetService(ctx, id)
	if err != nil {
		if rest.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return svc, true, nil
}

// HasState reports whether the instance is in the expected state. known is
// false when the instance could not be found.
func (m *InstanceManager) HasState(ctx context.Context, id string, expected InstanceState) (holds, known bool, err error) {
	svc, found, err := m.GetInstance(ctx, id)
	if err != nil {
		return false, false, fmt.Errorf("failed to read state of instance %s: %w", id, err)
	}
	if !found {
		return false, false, nil
	}
	return InstanceState(svc.State) == expected, true, nil
}
