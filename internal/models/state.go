package models

import "fmt"

// StateRecord is one persisted entry of the instance-state bag.
type StateRecord struct {
	Key         string `dynamodbav:"key" json:"key"`
	Value       string `dynamodbav:"value" json:"value"`
	LastUpdated int64  `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// Validate checks if a StateRecord's fields are valid
func (r *StateRecord) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("state key is required")
	}
	return nil
}
