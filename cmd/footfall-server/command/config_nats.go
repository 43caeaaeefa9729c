package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-footfall/internal/messaging"
)

const DefaultSubjectPrefix = "footfall"

type NatsConfig struct {
	Enabled       bool   `json:"enabled"`
	Host          string `json:"host"`
	Port          int    `json:"port"`
	StartTimeout  string `json:"start_timeout"`
	SubjectPrefix string `json:"subject_prefix"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if strings.ContainsAny(n.SubjectPrefix, " *>") {
		el.Add(fmt.Errorf("subject_prefix %q may not contain spaces or wildcards", n.SubjectPrefix))
	}

	return el.Err()
}

func (n *NatsConfig) subjectPrefix() string {
	if n.SubjectPrefix == "" {
		return DefaultSubjectPrefix
	}
	return n.SubjectPrefix
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}
