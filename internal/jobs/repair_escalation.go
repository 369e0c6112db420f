// Package jobs agrupa las tareas programadas de la aplicación.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Renovatec-api/internal/domain/entity"
	"github.com/jhoicas/Renovatec-api/internal/domain/repository"
	"github.com/jhoicas/Renovatec-api/pkg/config"
	"github.com/jhoicas/Renovatec-api/pkg/logger"
)

// RepairEscalation sube a prioridad high las reparaciones que llevan
// demasiados días en pending sin que nadie las empiece.
type RepairEscalation struct {
	repairRepo repository.RepairRepository
	cfg        config.JobsConfig
	log        *logger.Logger
	cron       *cron.Cron
}

// NewRepairEscalation construye la tarea.
func NewRepairEscalation(repairRepo repository.RepairRepository, cfg config.JobsConfig, log *logger.Logger) *RepairEscalation {
	return &RepairEscalation{repairRepo: repairRepo, cfg: cfg, log: log}
}

// Start programa la tarea según el spec cron configurado.
func (j *RepairEscalation) Start() error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.cfg.RepairEscalationSpec, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().
		Str("spec", j.cfg.RepairEscalationSpec).
		Int("stale_days", j.cfg.RepairStaleDays).
		Msg("escalación de reparaciones programada")
	return nil
}

// Stop detiene el scheduler y espera la corrida en curso.
func (j *RepairEscalation) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// Run ejecuta una pasada de escalación. Exportado para poder dispararlo
// manualmente y desde tests.
func (j *RepairEscalation) Run() {
	cutoff := time.Now().AddDate(0, 0, -j.cfg.RepairStaleDays)
	stale, err := j.repairRepo.ListPendingOlderThan(cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("escalación: listar reparaciones estancadas")
		return
	}
	escalated := 0
	for _, repair := range stale {
		if repair.Priority == entity.PriorityHigh {
			continue
		}
		repair.Priority = entity.PriorityHigh
		repair.UpdatedAt = time.Now()
		if err := j.repairRepo.Update(repair); err != nil {
			j.log.Error().Err(err).Str("repair_id", repair.ID).Msg("escalación: actualizar prioridad")
			continue
		}
		escalated++
	}
	if escalated > 0 {
		j.log.Info().Int("count", escalated).Msg("reparaciones escaladas a prioridad high")
	}
}
