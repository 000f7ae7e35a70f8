package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func ask(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

// Confirm prompts with a yes/no question. Anything but y/yes counts as no.
func Confirm(prompt string) bool {
	return ask(StyleWarning.Render(prompt))
}

// ConfirmDanger is Confirm in the error color, for destructive actions such
// as removing a wallet or revealing a key.
func ConfirmDanger(prompt string) bool {
	return ask(StyleError.Render("⚠ " + prompt))
}
