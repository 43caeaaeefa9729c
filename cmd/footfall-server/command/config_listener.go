package command

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-footfall/internal/listener"
)

const DefaultPort = 2219

type ListenerConfig struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

func (cl *ListenerConfig) validate() error {
	el := errors.NewErrorList()

	// Session ports are handed out above the rendezvous port.
	if cl.port() == math.MaxUint16 {
		el.Add(fmt.Errorf("port must leave room for session ports"))
	}

	return el.Err()
}

func (cl *ListenerConfig) port() uint16 {
	if cl.Port == 0 {
		return DefaultPort
	}
	return cl.Port
}

func (cl *ListenerConfig) BuildListener(cm *listener.ConnectionManager) *listener.RendezvousListener {
	return listener.NewRendezvousListener(cl.Host, cl.port(), cm)
}
