// Package mung reorders cipher suites, ALPN entries and version lists the
// way a JARM probe requires.
package mung

import (
	"github.com/sagernet/sing/common"
	E "github.com/sagernet/sing/common/exceptions"
	F "github.com/sagernet/sing/common/format"
)

type Order uint8

const (
	Forward Order = iota
	Reverse
	TopHalf
	BottomHalf
	MiddleOut
)

var (
	orderToString = map[Order]string{
		Forward:    "forward",
		Reverse:    "reverse",
		TopHalf:    "top_half",
		BottomHalf: "bottom_half",
		MiddleOut:  "middle_out",
	}
	stringToOrder = common.ReverseMap(orderToString)
)

func (o Order) String() string {
	name, loaded := orderToString[o]
	if !loaded {
		return F.ToString("order(", uint8(o), ")")
	}
	return name
}

func ParseOrder(name string) (Order, error) {
	order, loaded := stringToOrder[name]
	if !loaded {
		return Forward, E.New("unknown order: ", name)
	}
	return order, nil
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(text []byte) error {
	order, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = order
	return nil
}

// Apply returns a new slice holding items rearranged by order. The input is
// never modified.
func Apply[T any](items []T, order Order) []T {
	switch order {
	case Reverse:
		return reverse(items)
	case TopHalf:
		return topHalf(items)
	case BottomHalf:
		return bottomHalf(items)
	case MiddleOut:
		return middleOut(items)
	default:
		return append([]T(nil), items...)
	}
}

func reverse[T any](items []T) []T {
	output := make([]T, len(items))
	for i, item := range items {
		output[len(items)-1-i] = item
	}
	return output
}

// bottomHalf drops the first ceil(n/2) entries.
func bottomHalf[T any](items []T) []T {
	return append([]T(nil), items[(len(items)+1)/2:]...)
}

func topHalf[T any](items []T) []T {
	var output []T
	if len(items)%2 == 1 {
		output = append(output, items[len(items)/2])
	}
	return append(output, bottomHalf(reverse(items))...)
}

func middleOut[T any](items []T) []T {
	if len(items) < 2 {
		return append([]T(nil), items...)
	}
	middle := len(items) / 2
	output := make([]T, 0, len(items))
	if len(items)%2 == 1 {
		output = append(output, items[middle])
		for i := 1; i <= middle; i++ {
			output = append(output, items[middle+i], items[middle-i])
		}
	} else {
		for i := 1; i <= middle; i++ {
			output = append(output, items[middle-1+i], items[middle-i])
		}
	}
	return output
}
