// Package device contiene la máquina de estados del ciclo de vida de un
// dispositivo. Es lógica de dominio pura: la tabla de transiciones es la
// única fuente de verdad y todos los casos de uso pasan por ella.
package device

import (
	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// transitions enumera las aristas legales entre estados. scrap se maneja
// aparte: es alcanzable desde cualquier estado no terminal.
var transitions = map[string][]string{
	entity.StatusReceived:           {entity.StatusPendingInspection},
	entity.StatusPendingInspection:  {entity.StatusPhysicalInspection},
	entity.StatusPhysicalInspection: {entity.StatusTechInspection},
	entity.StatusTechInspection:     {entity.StatusReadyForSale, entity.StatusNeedsRepair},
	entity.StatusNeedsRepair:        {entity.StatusInRepair},
	entity.StatusInRepair:           {entity.StatusReadyForSale, entity.StatusNeedsRepair},
	entity.StatusReadyForSale:       {entity.StatusInBranch, entity.StatusSold},
	entity.StatusInBranch:           {entity.StatusSold},
	entity.StatusSold:               {},
	entity.StatusScrap:              {},
}

// IsValidStatus indica si el string es un estado conocido.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(s string) bool {
	return s == entity.StatusSold || s == entity.StatusScrap
}

// CanTransition indica si la arista from → to es legal.
func CanTransition(from, to string) bool {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return false
	}
	// Cualquier estado no terminal puede pasar a scrap (condición irrecuperable).
	if to == entity.StatusScrap {
		return !IsTerminal(from)
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate retorna ErrIllegalTransition si la arista no es legal.
func Validate(from, to string) error {
	if !CanTransition(from, to) {
		return domain.ErrIllegalTransition
	}
	return nil
}
