package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if err := requireURL("platform.api_endpoint", c.Platform.APIEndpoint); err != nil {
		errs = append(errs, err)
	}
	if c.Platform.HTTPTimeout < 0 {
		errs = append(errs, errors.New("platform.http_timeout must not be negative"))
	}
	if (c.Platform.Offering.ID == "") != (c.Platform.Offering.PlanID == "") {
		errs = append(errs, errors.New("platform.offering.id and platform.offering.plan_id must be set together"))
	}

	if err := requireURL("identity.endpoint", c.Identity.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if err := requireURL("identity.token_url", c.Identity.TokenURL); err != nil {
		errs = append(errs, err)
	}
	if c.Identity.ClientID == "" {
		errs = append(errs, errors.New("identity.client_id is required"))
	}
	if c.Identity.ClientSecret == "" {
		errs = append(errs, errors.New("identity.client_secret is required"))
	}

	if c.Scheduler.PackURI == "" {
		errs = append(errs, errors.New("scheduler.pack_uri is required"))
	}
	if err := requireURL("scheduler.resource_manager_url", c.Scheduler.ResourceManagerURL); err != nil {
		errs = append(errs, err)
	}

	if c.Kerberos.Enabled && (c.Kerberos.KDC == "" || c.Kerberos.Realm == "") {
		errs = append(errs, errors.New("kerberos.kdc and kerberos.realm are required when kerberos is enabled"))
	}

	if c.Store.Bucket == "" {
		errs = append(errs, errors.New("store.bucket is required"))
	}
	if c.Store.Endpoint != "" {
		if err := requireURL("store.endpoint", c.Store.Endpoint); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Dashboard.Validation.Policy().Check(); err != nil {
		errs = append(errs, fmt.Errorf("dashboard.validation: %w", err))
	}

	if c.Plans.DefaultWorkers < 1 {
		errs = append(errs, errors.New("plans.default_workers must be at least 1"))
	}
	for plan, n := range c.Plans.Workers {
		if n < 1 {
			errs = append(errs, fmt.Errorf("plans.workers[%s] must be at least 1, got %d", plan, n))
		}
	}

	return errors.Join(errs...)
}

func requireURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	return nil
}
