package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Abinaav-K876/market-crash/internal/config"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) { success.Println(msg) }
func printError(msg string)   { danger.Println(msg) }
func printInfo(msg string)    { neutral.Println(msg) }

func promptRequired(label string) (string, error) {
	for {
		accent.Printf("%s: ", label)
		line, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		danger.Println("A value is required.")
	}
}

func playerNameOrPrompt(cfg *config.Config) (string, error) {
	if cfg.PlayerName != "" {
		return cfg.PlayerName, nil
	}
	return promptRequired("Player name")
}
