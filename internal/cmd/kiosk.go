package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/elecperu/cabina/internal/models"
	"github.com/elecperu/cabina/internal/session"
	"github.com/elecperu/cabina/internal/storage"
)

// kiosk is the terminal front end: one voter session at a time, driven by
// stdin commands. All voting rules live in the session controller; this
// layer only renders and forwards events.
type kiosk struct {
	gateway session.Gateway
	store   storage.Store
	clock   session.Clock
	cfg     session.Config

	scanner *bufio.Scanner
	ctrl    atomic.Pointer[session.Controller]
	quit    bool
}

func newKiosk(gateway session.Gateway, store storage.Store, clock session.Clock, cfg session.Config) *kiosk {
	return &kiosk{
		gateway: gateway,
		store:   store,
		clock:   clock,
		cfg:     cfg,
		scanner: bufio.NewScanner(os.Stdin),
	}
}

// Run loops over voter sessions until stdin closes or the operator quits.
func (k *kiosk) Run() {
	ctx := context.Background()
	for !k.quit {
		ctrl := session.NewController(k.gateway, k.store, k.clock, k.cfg, session.Hooks{
			OnTimeExpired: func() {
				fmt.Println("\n*** Tiempo agotado. Su tiempo ha acabado, gracias por votar. ***")
			},
			OnRedirect: func() {
				fmt.Println("Sesión finalizada. Presione Enter para continuar.")
			},
		})
		k.ctrl.Store(ctrl)

		if err := ctrl.Resume(ctx); err != nil {
			if !errors.Is(err, session.ErrSessionInvalid) {
				fmt.Printf("No se pudo restaurar la sesión: %v\n", err)
			}
			if !k.identityLoop(ctx, ctrl) {
				ctrl.Close()
				return
			}
		} else {
			fmt.Println("Sesión restaurada.")
		}

		k.votingLoop(ctx, ctrl)
		ctrl.Close()
	}
}

// Close tears down the active controller so no timers fire after shutdown.
func (k *kiosk) Close() {
	if ctrl := k.ctrl.Load(); ctrl != nil {
		ctrl.Close()
	}
}

// identityLoop prompts for a DNI until verification succeeds. Returns false
// when input is exhausted.
func (k *kiosk) identityLoop(ctx context.Context, ctrl *session.Controller) bool {
	for {
		fmt.Print("Ingrese su DNI (8 dígitos): ")
		if !k.scanner.Scan() {
			k.quit = true
			return false
		}
		dni := strings.TrimSpace(k.scanner.Text())
		if dni == "" {
			continue
		}
		if dni == "salir" {
			k.quit = true
			return false
		}
		if err := ctrl.Begin(ctx, dni); err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		voter := ctrl.Voter()
		fmt.Printf("Bienvenido, %s\n", voter.FullName)
		return true
	}
}

// votingLoop serves one active session until it terminates.
func (k *kiosk) votingLoop(ctx context.Context, ctrl *session.Controller) {
	k.printHelp()
	for {
		switch ctrl.Status() {
		case session.StatusSubmitted, session.StatusExpired:
			return
		}

		if remaining, err := ctrl.Remaining(); err == nil {
			fmt.Printf("[%s] > ", session.FormatRemaining(remaining))
		} else {
			fmt.Print("> ")
		}
		if !k.scanner.Scan() {
			k.quit = true
			return
		}
		line := strings.TrimSpace(k.scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "lista":
			k.printCandidates(ctrl)
		case "votar":
			if len(fields) != 2 {
				fmt.Println("Uso: votar <id-candidato>")
				continue
			}
			k.toggle(ctrl, fields[1])
		case "boleta":
			k.printBallot(ctrl)
		case "confirmar":
			if err := ctrl.Confirm(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "actualizar":
			if err := ctrl.RefreshCandidates(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			if err := ctrl.RefreshVotedCategories(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "ayuda":
			k.printHelp()
		case "salir":
			k.quit = true
			return
		default:
			fmt.Println("Comando desconocido. Escriba 'ayuda'.")
		}
	}
}

func (k *kiosk) toggle(ctrl *session.Controller, candidateID string) {
	for _, c := range ctrl.Candidates() {
		if c.ID == candidateID {
			if err := ctrl.Toggle(c); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}
	}
	fmt.Println("Candidato no encontrado.")
}

func (k *kiosk) printCandidates(ctrl *session.Controller) {
	for _, category := range models.Categories() {
		fmt.Printf("\n-- %s --\n", category)
		for _, c := range ctrl.CandidatesByCategory(category) {
			marker := " "
			if sel, ok := selectedIn(ctrl, category); ok && sel.CandidateID == c.ID {
				marker = "*"
			}
			fmt.Printf(" %s %s  %s (%s)\n", marker, c.ID, c.Name, c.PartyName)
		}
	}
	if locked := ctrl.LockedCategories(); len(locked) > 0 {
		fmt.Printf("\nCategorías ya votadas: %v\n", locked)
	}
}

func selectedIn(ctrl *session.Controller, category models.Category) (models.Selection, bool) {
	for _, sel := range ctrl.Selections() {
		if sel.Category == category {
			return sel, true
		}
	}
	return models.Selection{}, false
}

func (k *kiosk) printBallot(ctrl *session.Controller) {
	selections := ctrl.Selections()
	if len(selections) == 0 {
		fmt.Println("Boleta vacía.")
		return
	}
	for i, sel := range selections {
		fmt.Printf("%d. [%s] %s\n", i+1, sel.Category, sel.CandidateName)
	}
}

func (k *kiosk) printHelp() {
	fmt.Println(`Comandos:
  lista       ver candidatos por categoría
  votar <id>  seleccionar o deseleccionar un candidato
  boleta      ver la boleta actual
  confirmar   enviar la boleta
  actualizar  recargar candidatos y categorías votadas
  salir       terminar`)
}
