package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"nova/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Println("usage: nova-ctl [--socket path] <trigger|say <text>|checker start|stop|status>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0], Arg: strings.Join(args[1:], " ")}
	reply, err := ipc.Send(*socket, msg)
	if err != nil {
		fmt.Println("nova-daemon not running:", err)
		os.Exit(1)
	}
	if reply.Text != "" {
		fmt.Println(reply.Text)
	}
	if !reply.OK {
		os.Exit(1)
	}
}
