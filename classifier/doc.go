// Package classifier defines what the separation pipeline needs from a
// time-frequency classifier and ships a small baseline that satisfies it.
//
// A classifier takes a batch of slices shaped N x bins x width x 1 and returns
// one probability vector of length bins per slice, in input order. The
// probability for bin y says how likely the centre frame of the slice holds
// vocal energy at that frequency.
//
// Logistic is a per-bin logistic regression over the slice rows of the bin
// and its neighbours. It is not meant to compete with a convolutional
// network; it makes train and separate usable end to end and serves as the
// reference implementation of Trainer.
package classifier
