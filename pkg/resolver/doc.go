// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolver runs a domain transformation I -> O between two pairs of
// extension points.
//
// A Pipeline executes, in fixed order:
//   - pre-checks over the input: every check runs, failures are aggregated
//   - pre-activities over the input: side effects, the first error aborts
//   - the transformation itself
//   - post-checks over the output
//   - post-activities over the output
//
// Checks and activities are sorted by descending Order() before each phase.
// Equal orders keep registration order.
//
// Example usage:
//
//	reg := resolver.NewRegistry[Order, Invoice]().
//	    WithPreCheck(resolver.NewCheck("has-lines", 10, hasLines)).
//	    WithPostActivity(resolver.NewActivity("notify", 0, notify))
//
//	p, err := resolver.New(buildInvoice, reg, resolver.WithName("invoicing"))
//	if err != nil {
//	    return err
//	}
//	invoice, err := p.Resolve(ctx, order)
//	var rerr *resolver.ResolutionError
//	if errors.As(err, &rerr) {
//	    for _, f := range rerr.Failures {
//	        log.Println(f.Contributor, f.Result.ErrorMessage())
//	    }
//	}
//
// Plugins can also be contributed without the pipeline knowing their concrete
// types by registering factories in a discovery.Catalog under a marker and
// passing WithDiscovery to New.
package resolver
