// Branchfinder - Bank Branch and ATM Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/branchfinder

package recommend

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Operation is a branch service with its fixed service time.
type Operation struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

var catalog = []Operation{
	{Name: "Открыть вклад", Minutes: 15},
	{Name: "Открыть дебетовую карту", Minutes: 10},
	{Name: "Закрыть вклад", Minutes: 14},
	{Name: "Взять кредит", Minutes: 30},
	{Name: "Купить валюту", Minutes: 5},
	{Name: "Продать валюту", Minutes: 6},
	{Name: "Перевести деньги внутри страны", Minutes: 7},
	{Name: "Перевести деньги за рубеж", Minutes: 18},
	{Name: "Открыть ипотеку", Minutes: 25},
	{Name: "Разменять деньги", Minutes: 2},
}

var catalogIndex = func() map[string]Operation {
	idx := make(map[string]Operation, len(catalog))
	for _, op := range catalog {
		idx[operationKey(op.Name)] = op
	}
	return idx
}()

// Catalog returns a copy of the operation catalog in display order.
func Catalog() []Operation {
	out := make([]Operation, len(catalog))
	copy(out, catalog)
	return out
}

// LookupOperation finds a catalog entry ignoring case, surrounding
// whitespace and Unicode normalization form.
func LookupOperation(name string) (Operation, bool) {
	op, ok := catalogIndex[operationKey(name)]
	return op, ok
}

// operationKey folds a name into its comparison form.
func operationKey(name string) string {
	s := norm.NFC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}
