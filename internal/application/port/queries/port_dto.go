package queries

import (
	"github.com/andrescamacho/searoutes-go/internal/domain/market"
)

// StockDTO is one commodity line of a port
type StockDTO struct {
	Commodity string `json:"commodity"`
	Amount    int    `json:"amount"`
	Price     int    `json:"price"`
}

// PortDTO is the client view of a port
type PortDTO struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Lat   float64     `json:"lat"`
	Lon   float64     `json:"lon"`
	Stock []*StockDTO `json:"stock"`
}

// ToPortDTO flattens a port for responses
func ToPortDTO(p *market.Port) *PortDTO {
	dto := &PortDTO{
		ID:    p.ID(),
		Name:  p.Name(),
		Stock: make([]*StockDTO, 0),
	}
	if c := p.Coordinates(); c != nil {
		dto.Lat = c.Lat
		dto.Lon = c.Lon
	}
	for _, entry := range p.Stocks() {
		dto.Stock = append(dto.Stock, &StockDTO{
			Commodity: entry.Commodity.String(),
			Amount:    entry.Amount,
			Price:     entry.Price,
		})
	}
	return dto
}
