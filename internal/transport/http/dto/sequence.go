package dto

import "maison_atelier/internal/domain/models"

type SaveSequenceRequest struct {
	Sequences []models.SequenceEntry `json:"sequences" validate:"required,min=1"`
}

type MoveRequest struct {
	Index     int    `json:"index" validate:"min=0"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}
