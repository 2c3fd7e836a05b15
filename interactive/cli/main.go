package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Trinoooo/collatz_cert/consts"
	"github.com/Trinoooo/collatz_cert/interactive/cli/handle"
	"github.com/chzyer/readline"
)

func main() {
	input, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("gen"),
			readline.PcItem("verify"),
			readline.PcItem("stats"),
			readline.PcItem("exit"),
		),
		HistoryFile: fmt.Sprintf("%s/cli/cmd_history_%s", consts.TmpDir, time.Now().Format("20060102")),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer input.Close()

	cSignal := make(chan os.Signal, 1)
	signal.Notify(cSignal, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-cSignal
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		default:
			str, err := input.Readline()
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					return
				}
				log.Println(err)
				continue
			}
			if strings.EqualFold(strings.TrimSpace(str), "exit") {
				return
			}
			handle.HandleInput(str)
		}
	}
}
