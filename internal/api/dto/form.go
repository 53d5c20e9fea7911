package dto

import (
	"delivery-booking-service/internal/domain"
	"strconv"
)

type TimingDTO struct {
	Kind string `json:"kind"`
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

func (t TimingDTO) ToDomain() domain.DeliveryTiming {
	return domain.DeliveryTiming{Kind: domain.TimingKind(t.Kind), Date: t.Date, Time: t.Time}
}

func FromTiming(t domain.DeliveryTiming) TimingDTO {
	return TimingDTO{Kind: string(t.Kind), Date: t.Date, Time: t.Time}
}

type OrderItemDTO struct {
	Description string  `json:"description"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Weight      float64 `json:"weight"`
	Quantity    int     `json:"quantity"`
}

type OrderDTO struct {
	PONumber    string         `json:"po_number"`
	OrderNumber string         `json:"order_number"`
	BOLNumber   string         `json:"bol_number"`
	Items       []OrderItemDTO `json:"items"`
}

func ToOrders(in []OrderDTO) []domain.Order {
	out := make([]domain.Order, len(in))
	for i, o := range in {
		items := make([]domain.OrderItem, len(o.Items))
		for j, it := range o.Items {
			items[j] = domain.OrderItem(it)
		}
		out[i] = domain.Order{
			PONumber:    o.PONumber,
			OrderNumber: o.OrderNumber,
			BOLNumber:   o.BOLNumber,
			Items:       items,
		}
	}
	return out
}

func FromOrders(in []domain.Order) []OrderDTO {
	out := make([]OrderDTO, len(in))
	for i, o := range in {
		items := make([]OrderItemDTO, len(o.Items))
		for j, it := range o.Items {
			items[j] = OrderItemDTO(it)
		}
		out[i] = OrderDTO{
			PONumber:    o.PONumber,
			OrderNumber: o.OrderNumber,
			BOLNumber:   o.BOLNumber,
			Items:       items,
		}
	}
	return out
}

type ContactDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Contacts travel keyed by stop ordinal as a JSON object ("1", "2", ...).
func ToContacts(in map[string]ContactDTO) (map[int]domain.ContactInfo, error) {
	out := make(map[int]domain.ContactInfo, len(in))
	for k, c := range in {
		ordinal, err := strconv.Atoi(k)
		if err != nil {
			return nil, err
		}
		out[ordinal] = domain.ContactInfo(c)
	}
	return out, nil
}

func FromContacts(in map[int]domain.ContactInfo) map[string]ContactDTO {
	out := make(map[string]ContactDTO, len(in))
	for ordinal, c := range in {
		out[strconv.Itoa(ordinal)] = ContactDTO(c)
	}
	return out
}
