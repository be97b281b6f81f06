// Package matching resolves noisy free text against small reference lists.
//
// Two matchers share one pipeline: normalize, tokenize, score every reference record with
// several similarity signals, keep the first-seen best, then accept against an inclusive
// threshold. StockistMatcher resolves statement filenames to stockists; ProductMatcher
// resolves extracted product rows to catalog products. Reference lists are prepared once
// per batch into read-only sets that are safe to share between goroutines.
package matching
