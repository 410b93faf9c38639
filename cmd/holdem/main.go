// Command holdem plays hands of Texas Hold'em at a local table, with every
// seat driven from stdin. Useful for trying the engine without a server.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/game"
)

var CLI struct {
	Players    int   `short:"n" default:"4" help:"Number of seats (2-4)"`
	Chips      int   `default:"1000" help:"Starting chips per player"`
	SmallBlind int   `default:"10" help:"Small blind"`
	BigBlind   int   `default:"20" help:"Big blind"`
	Seed       int64 `help:"RNG seed (0 for random)"`
}

var (
	styleStreet = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	stylePot    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	styleWinner = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	styleBlack  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	styleErr    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

func main() {
	kctx := kong.Parse(&CLI)
	if CLI.Players < 2 || CLI.Players > 4 {
		fmt.Fprintln(os.Stderr, "players must be 2-4")
		kctx.Exit(1)
	}

	seed := CLI.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	roster := make([]game.Seat, CLI.Players)
	for i := range roster {
		roster[i] = game.Seat{
			ID:    fmt.Sprintf("p%d", i+1),
			Name:  fmt.Sprintf("Player %d", i+1),
			Chips: CLI.Chips,
		}
	}

	reader := bufio.NewReader(os.Stdin)
	button := 0

	for {
		// Seat everyone still holding chips, starting at the button so the
		// first collected seat is the dealer.
		var seats []game.Seat
		for i := 0; i < len(roster); i++ {
			s := roster[(button+i)%len(roster)]
			if s.Chips > 0 {
				seats = append(seats, s)
			}
		}
		if len(seats) < 2 {
			fmt.Println("Game over.")
			return
		}

		hand, err := game.NewHand(rng, seats, 0,
			game.WithBlinds(CLI.SmallBlind, CLI.BigBlind))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			kctx.Exit(1)
		}

		if err := playHand(hand, reader); err != nil {
			fmt.Fprintln(os.Stderr, err)
			kctx.Exit(1)
		}

		for _, p := range hand.Players {
			for i := range roster {
				if roster[i].ID == p.ID {
					roster[i].Chips = p.Chips
				}
			}
		}

		fmt.Print("Play another hand? [y/n] ")
		line, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.TrimSpace(strings.ToLower(line)), "y") {
			return
		}
		button = (button + 1) % len(roster)
	}
}

func playHand(hand *game.Hand, reader *bufio.Reader) error {
	lastPhase := game.Phase(-1)
	for !hand.Done() {
		if phase := hand.Phase(); phase != lastPhase {
			fmt.Println(styleStreet.Render(fmt.Sprintf("*** %s ***", strings.ToUpper(phase.String()))))
			lastPhase = phase
		}

		actor := hand.Players[hand.Active]
		view := hand.PublicView(actor.ID)
		renderTable(view, actor.ID)

		action, amount, err := promptAction(reader, actor.Name)
		if err != nil {
			return err
		}
		if err := hand.SubmitAction(actor.ID, action, amount); err != nil {
			fmt.Println(styleErr.Render(err.Error()))
		}
	}

	result := hand.Result()
	fmt.Println(styleStreet.Render("*** RESULT ***"))
	for _, rh := range result.Revealed {
		fmt.Printf("  %s: %s (%s)\n", rh.PlayerID, renderCards(rh.HoleCards), rh.RankName)
	}
	for _, p := range result.Pots {
		fmt.Println(styleWinner.Render(
			fmt.Sprintf("  pot %d won by %s", p.Amount, strings.Join(p.Winners, ", "))))
	}
	return nil
}

func renderTable(view game.PublicView, viewerID string) {
	fmt.Printf("Board: %s  %s\n",
		renderCards(view.Community),
		stylePot.Render(fmt.Sprintf("pot %d", view.Pot)))
	for _, p := range view.Players {
		marker := " "
		if p.ID == viewerID {
			marker = "*"
		}
		status := ""
		switch {
		case !p.InHand:
			status = " (folded)"
		case p.AllIn:
			status = " (all-in)"
		}
		fmt.Printf("%s %-10s chips=%-5d bet=%-4d %s%s\n",
			marker, p.Name, p.Chips, p.Bet, renderCards(p.HoleCards), status)
	}
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "--"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = styleRed.Render(c.String())
		} else {
			parts[i] = styleBlack.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

func promptAction(reader *bufio.Reader, name string) (game.Action, int, error) {
	for {
		fmt.Printf("%s> fold/check/call/raise <amount>: ", name)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, 0, err
		}
		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}

		action, ok := game.ParseAction(fields[0])
		if !ok {
			fmt.Println(styleErr.Render("unknown action"))
			continue
		}
		amount := 0
		if len(fields) > 1 {
			if amount, err = strconv.Atoi(fields[1]); err != nil {
				fmt.Println(styleErr.Render("bad amount"))
				continue
			}
		}
		return action, amount, nil
	}
}
