package postgres

import (
	"cryptosync/models"
)

//go:generate mockery --case=snake --name=OrderRepo
//go:generate mockery --case=snake --name=PositionRepo
//go:generate mockery --case=snake --name=CollateralRepo

type OrderRepo interface {
	Upsert(account, symbol string, rows []models.Order) (int, error)
}

type PositionRepo interface {
	Insert(rows []models.Position) error
	DistinctSymbols(account string) ([]string, error)
}

type CollateralRepo interface {
	Insert(row *models.Collateral) error
}
