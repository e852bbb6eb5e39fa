package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todo_task_operations_total",
		Help: "Task service operations by outcome",
	},
	[]string{"operation", "result"},
)

func init() {
	prometheus.MustRegister(operations)
}
