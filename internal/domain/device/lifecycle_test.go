package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Renovatec-api/internal/domain"
	"github.com/jhoicas/Renovatec-api/internal/domain/device"
	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
)

// Aristas legales del pipeline completo, de recepción a venta.
func TestCanTransition_PipelineCompleto(t *testing.T) {
	legales := [][2]string{
		{entity.StatusReceived, entity.StatusPendingInspection},
		{entity.StatusPendingInspection, entity.StatusPhysicalInspection},
		{entity.StatusPhysicalInspection, entity.StatusTechInspection},
		{entity.StatusTechInspection, entity.StatusReadyForSale},
		{entity.StatusTechInspection, entity.StatusNeedsRepair},
		{entity.StatusNeedsRepair, entity.StatusInRepair},
		{entity.StatusInRepair, entity.StatusReadyForSale},
		{entity.StatusInRepair, entity.StatusNeedsRepair},
		{entity.StatusReadyForSale, entity.StatusInBranch},
		{entity.StatusReadyForSale, entity.StatusSold},
		{entity.StatusInBranch, entity.StatusSold},
	}
	for _, arista := range legales {
		assert.True(t, device.CanTransition(arista[0], arista[1]),
			"debe permitirse %s -> %s", arista[0], arista[1])
	}
}

// Cualquier estado no terminal puede pasar a scrap; sold y scrap no.
func TestCanTransition_ScrapDesdeNoTerminales(t *testing.T) {
	noTerminales := []string{
		entity.StatusReceived, entity.StatusPendingInspection,
		entity.StatusPhysicalInspection, entity.StatusTechInspection,
		entity.StatusReadyForSale, entity.StatusNeedsRepair,
		entity.StatusInRepair, entity.StatusInBranch,
	}
	for _, from := range noTerminales {
		assert.True(t, device.CanTransition(from, entity.StatusScrap),
			"debe permitirse %s -> scrap", from)
	}
	assert.False(t, device.CanTransition(entity.StatusSold, entity.StatusScrap),
		"sold es terminal, no puede pasar a scrap")
	assert.False(t, device.CanTransition(entity.StatusScrap, entity.StatusScrap))
}

// Aristas ilegales representativas: saltos de etapa, reversas y terminales.
func TestCanTransition_AristasIlegales(t *testing.T) {
	ilegales := [][2]string{
		{entity.StatusReceived, entity.StatusReadyForSale},
		{entity.StatusReceived, entity.StatusSold},
		{entity.StatusPendingInspection, entity.StatusTechInspection},
		{entity.StatusReadyForSale, entity.StatusNeedsRepair},
		{entity.StatusNeedsRepair, entity.StatusReadyForSale},
		{entity.StatusSold, entity.StatusReadyForSale},
		{entity.StatusScrap, entity.StatusReceived},
		{entity.StatusInBranch, entity.StatusReadyForSale},
	}
	for _, arista := range ilegales {
		assert.False(t, device.CanTransition(arista[0], arista[1]),
			"no debe permitirse %s -> %s", arista[0], arista[1])
	}
}

func TestValidate_RetornaErrIllegalTransition(t *testing.T) {
	err := device.Validate(entity.StatusReceived, entity.StatusSold)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	assert.NoError(t, device.Validate(entity.StatusReceived, entity.StatusPendingInspection))
}

func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, device.CanTransition("inventado", entity.StatusSold))
	assert.False(t, device.CanTransition(entity.StatusReceived, "inventado"))
	assert.False(t, device.IsValidStatus("inventado"))
	assert.True(t, device.IsValidStatus(entity.StatusInRepair))
}
