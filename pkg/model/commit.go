// Copyright © 2026 TreeCAS Authors

package model

import (
	"fmt"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// CommitDescriptor represents a commit: a pointer to the root tree of a
// snapshot, with history metadata.
type CommitDescriptor struct {
	Tree         string        `json:"tree" yaml:"tree"`
	Message      string        `json:"message" yaml:"message"`
	Parents      []string      `json:"parents,omitempty" yaml:"parents,omitempty"`
	Timestamp    time.Time     `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Contributors []Contributor `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	_            struct{}
}

// Contributor who created the commit
type Contributor struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	_     struct{}
}

func (c *Contributor) String() string {
	if c.Email == "" {
		return c.Name
	}
	if c.Name == "" {
		return c.Email
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

// Validate checks that the commit points somewhere.
func (c *CommitDescriptor) Validate() error {
	if c.Tree == "" {
		return fmt.Errorf("commit without a root tree")
	}
	return nil
}

// GetCommitTimeStamp returns the normalized time stamp recorded in commits.
func GetCommitTimeStamp() time.Time {
	return time.Now().UTC()
}

// MarshalCommit serializes a commit descriptor after validating it.
func MarshalCommit(c *CommitDescriptor) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(c)
}

// UnmarshalCommit deserializes and validates a commit object payload.
func UnmarshalCommit(data []byte) (*CommitDescriptor, error) {
	var c CommitDescriptor
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
