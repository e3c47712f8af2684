package batchCall

import "go.uber.org/zap"

type namespacedRecord struct {
	namespace string
	record    *AddressRecord
}

// aggregateResults folds per-address call outcomes into address records and groups them by
// namespace. A record is created the first time one of its methods produces a result and
// keeps the namespace of that first producer.
//
// Within a method, results are unique by encoded input. A zero-argument result for an
// address whose record already existed replaces the method's whole list rather than
// appending to it.
// Results for a method named "address" are kept in Methods but cannot be encoded next to
// the record's own address key, so they are reported once per record.
// TODO: confirm whether repeated zero-argument results should be no-ops instead of replacements
func aggregateResults(calls []addressCalls, logger *zap.Logger) Result {
	ordered := make([]*namespacedRecord, 0)
	byAddress := make(map[string]*namespacedRecord)
	shadowed := make(map[string]bool)

	for _, ac := range calls {
		for _, res := range ac.state {
			if res == nil {
				continue
			}
			if res.Method == reservedAddressKey && !shadowed[ac.address] {
				shadowed[ac.address] = true
				logger.Sugar().Warnw("Method result shadowed by the record address, it is left out of the JSON output",
					zap.String("address", ac.address),
					zap.String("method", res.Method),
				)
			}
			entry := MethodResult{
				Value: res.Value,
				Input: res.Input,
				Args:  res.Args,
			}

			nr, found := byAddress[ac.address]
			if !found {
				nr = &namespacedRecord{
					namespace: ac.namespace,
					record:    newAddressRecord(ac.address),
				}
				nr.record.setMethod(res.Method, []MethodResult{entry})
				byAddress[ac.address] = nr
				ordered = append(ordered, nr)
				continue
			}

			if res.Input == "" {
				nr.record.setMethod(res.Method, []MethodResult{entry})
				continue
			}

			existing := nr.record.Methods[res.Method]
			if hasInput(existing, res.Input) {
				continue
			}
			nr.record.setMethod(res.Method, append(existing, entry))
		}
	}

	result := make(Result)
	for _, nr := range ordered {
		result[nr.namespace] = append(result[nr.namespace], nr.record)
	}
	return result
}

func hasInput(results []MethodResult, input string) bool {
	for _, r := range results {
		if r.Input == input {
			return true
		}
	}
	return false
}
