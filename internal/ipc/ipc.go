// Package ipc is the local control channel between nova-ctl and the running
// daemon: a unix socket carrying one JSON request and one JSON reply per
// connection.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// DefaultSocketPath is where the daemon listens unless configured otherwise.
const DefaultSocketPath = "/tmp/nova.sock"

// ControlMessage is a request from nova-ctl. Cmd is the verb ("trigger",
// "say", "checker"); Arg carries the command text or subverb.
type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// Reply carries the daemon's answer back to nova-ctl.
type Reply struct {
	OK   bool   `json:"ok"`
	Text string `json:"text,omitempty"`
}

// Server answers control messages on a unix socket.
type Server struct {
	ln net.Listener
}

// StartServer listens on path and dispatches each incoming message to handler
// on its own goroutine. A stale socket file from a previous run is removed.
func StartServer(path string, handler func(ControlMessage) Reply) (*Server, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return &Server{ln: ln}, nil
}

// Close stops accepting and removes the socket.
func (s *Server) Close() error {
	return s.ln.Close()
}

func handleConn(conn net.Conn, handler func(ControlMessage) Reply) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	json.NewEncoder(conn).Encode(handler(msg))
}

// Send connects to the daemon's socket, sends one message and waits for the
// reply.
func Send(path string, msg ControlMessage) (Reply, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return Reply{}, err
	}
	var reply Reply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return Reply{}, err
	}
	return reply, nil
}
