// Package relay builds relay lineups from the master table.
//
// Every swimmer is reduced to a Candidate: one optional 50-equivalent time
// per stroke (fly, back, breast, free). A 50-equivalent is the recorded 50
// time or, when there is none, the 100 time converted with a fixed power
// law. Swimmers in division 4 and up, and in the O2 tier, always use the
// converted value for backstroke and breaststroke.
//
//   - SolveMedley finds the exact minimum-total assignment of four distinct
//     swimmers to the four strokes by depth-first enumeration in candidate
//     order, pruning any branch whose partial sum already reaches the best
//     total. The search is exponential in the number of candidates per
//     stroke; WithMaxCombinations bounds the product of slot sizes.
//   - SolveFreestyle takes the four fastest free times and moves the fastest
//     swimmer to the anchor leg.
//   - Estimate sums a fixed lineup without substitution.
package relay
