// Package observe adds a side channel to a capability registry for debugging
// and profiling.
//
// Wrap decorates any registry.Registry. The result satisfies the same
// interface and forwards every call unchanged, so it can be installed wherever
// a plain registry is expected. Each successful List call also records the
// returned items as the category's latest observation. Only the most recent
// call per category is retained: the log models "last observed state", not a
// history. Recording can never fail the List call it piggybacks on.
//
// NewReport projects the log into flattened, display-ready records. A Report
// is computed once, on first use, and cached:
//
//	reg := observe.Wrap(registry.New())
//	reg.RegisterTool(tool, handler, true)
//	_, _ = reg.ListTools(0, nil)
//
//	report := observe.NewReport(reg)
//	fmt.Println(report.TotalCount()) // 1
//
// ProfileStore persists computed reports under a token in a storage.Storage
// backend, so they remain inspectable after the request that produced them.
package observe
