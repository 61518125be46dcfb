// Package prometheus exports knowledge base load metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	db, _ := apilevel.Open(ctx,
//	    apilevel.WithDescriptor(path),
//	    apilevel.WithMetricsCollector(apiprom.NewCollector(reg, "lint")),
//	)
package prometheus
