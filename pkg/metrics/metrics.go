package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

var (
	OperationCount = prom.NewCounterVec(
		prom.CounterOpts{
			Name: "orderlist_operation_count",
			Help: "Total number of list operations run by the workload",
		},
		[]string{"run", "op"},
	)
	OperationFailureCount = prom.NewCounterVec(
		prom.CounterOpts{
			Name: "orderlist_operation_failure_count",
			Help: "Total number of list operations that returned an error",
		},
		[]string{"run", "op"},
	)
	OracleWorkCount = prom.NewCounterVec(
		prom.CounterOpts{
			Name: "orderlist_oracle_work_count",
			Help: "Order oracle work by kind: relabels, group relabels, splits, merges and redistributions",
		},
		[]string{"run", "kind"},
	)
	RelabelWorkQuantile = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "orderlist_relabel_work_quantile",
			Help: "Quantile of labels rewritten per operation over the stats window",
		},
		[]string{"run", "quantile"},
	)
	RelabelWorkAverage = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "orderlist_relabel_work_average",
			Help: "Average labels rewritten per operation over the stats window",
		},
		[]string{"run"},
	)
	ListSize = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "orderlist_list_size",
			Help: "Number of values in the workload list",
		},
		[]string{"run"},
	)
	TagGroupCount = prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: "orderlist_tag_group_count",
			Help: "Number of live tag groups in the workload list",
		},
		[]string{"run"},
	)
	InvariantFailureCount = prom.NewCounterVec(
		prom.CounterOpts{
			Name: "orderlist_invariant_failure_count",
			Help: "Total number of invariant violations detected",
		},
		[]string{"run"},
	)
)

func Init() {
	prom.MustRegister(OperationCount)
	prom.MustRegister(OperationFailureCount)
	prom.MustRegister(OracleWorkCount)
	prom.MustRegister(RelabelWorkQuantile)
	prom.MustRegister(RelabelWorkAverage)
	prom.MustRegister(ListSize)
	prom.MustRegister(TagGroupCount)
	prom.MustRegister(InvariantFailureCount)
}
