// Package inventoryrepo implements the inventory ledger on the branch_products table.
package inventoryrepo

import (
	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BranchProductDTO holds the stock counters of one product at one branch.
type BranchProductDTO struct {
	BranchID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StockQuantity    int       `gorm:"not null;default:0;check:chk_branch_products_stock,stock_quantity >= 0"`
	ReservedQuantity int       `gorm:"not null;default:0;check:chk_branch_products_reserved,reserved_quantity >= 0 AND reserved_quantity <= stock_quantity"`
}

func (BranchProductDTO) TableName() string {
	return "branch_products"
}

func fromDomain(r *inventory.StockRecord) BranchProductDTO {
	return BranchProductDTO{
		BranchID:         r.BranchID().Bytes(),
		ProductID:        r.ProductID().Bytes(),
		StockQuantity:    r.Stock(),
		ReservedQuantity: r.Reserved(),
	}
}

func toDomain(dto BranchProductDTO) (*inventory.StockRecord, error) {
	branchID, err := kernel.UUIDFromBytes(dto.BranchID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	return inventory.NewStockRecord(branchID, productID, dto.StockQuantity, dto.ReservedQuantity)
}
