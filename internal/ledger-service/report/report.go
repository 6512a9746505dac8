package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/radieske/numbers-ledger-poc/internal/ledger-service/entity"
)

// NumberSummary agrega as apostas de um número dentro de uma janela.
type NumberSummary struct {
	Number      string  `json:"number"`
	TotalAmount float64 `json:"totalAmount"`
	BetCount    int     `json:"betCount"`
}

// GroupByNumber filtra as apostas pelo tipo de jogo e pela janela e agrega
// soma e contagem por número distinto. Resultado em totalAmount decrescente;
// empates ordenam pelo número ascendente pra saída determinística.
func GroupByNumber(bets []entity.Bet, gameType string, w Window) []NumberSummary {
	acc := make(map[string]*NumberSummary)
	for _, b := range bets {
		if b.Type != gameType {
			continue
		}
		if !w.Contains(time.UnixMilli(b.Timestamp).UTC()) {
			continue
		}
		s := acc[b.Number]
		if s == nil {
			s = &NumberSummary{Number: b.Number}
			acc[b.Number] = s
		}
		s.TotalAmount += b.Amount
		s.BetCount++
	}

	out := make([]NumberSummary, 0, len(acc))
	for _, s := range acc {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount != out[j].TotalAmount {
			return out[i].TotalAmount > out[j].TotalAmount
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// MaxMonths limita o gráfico do dashboard aos meses mais recentes com venda.
const MaxMonths = 7

type MonthlySales struct {
	Name   string  `json:"name"` // ex: "Jan '25"
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

type Stats struct {
	TotalSales float64        `json:"totalSales"`
	NetProfit  float64        `json:"netProfit"`
	SalesData  []MonthlySales `json:"salesData"`
}

// Dashboard computa vendas totais e os buckets mensais sobre o conjunto de
// apostas recebido (sem filtro de tipo). margin é a margem de lucro assumida;
// lucro real exigiria a liquidação efetiva de prêmios, que não existe aqui.
func Dashboard(bets []entity.Bet, margin float64) Stats {
	var total float64
	sums := make(map[int]float64) // ano*12 + mês(0-indexado) -> vendas

	for _, b := range bets {
		total += b.Amount
		t := time.UnixMilli(b.Timestamp).UTC()
		sums[t.Year()*12+int(t.Month())-1] += b.Amount
	}

	keys := make([]int, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if len(keys) > MaxMonths {
		keys = keys[len(keys)-MaxMonths:]
	}

	salesData := make([]MonthlySales, 0, len(keys))
	for _, k := range keys {
		salesData = append(salesData, MonthlySales{
			Name:   monthLabel(k),
			Sales:  sums[k],
			Profit: sums[k] * margin,
		})
	}

	return Stats{
		TotalSales: total,
		NetProfit:  total * margin,
		SalesData:  salesData,
	}
}

// monthLabel formata "Jan '25" a partir da chave ano*12+mês
func monthLabel(key int) string {
	year := key / 12
	month := time.Month(key%12 + 1)
	return fmt.Sprintf("%s '%02d", month.String()[:3], year%100)
}
