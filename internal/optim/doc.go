// Package optim searches launch technique. GridSearch walks every combination
// of parameter values; Launch turns a (release, gas) pair into a standing
// start and scores it by time to speed.
package optim
