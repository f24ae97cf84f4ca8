//Package cv cross-validates PLS models: leave-one-out, leave-two-out and
//leave-many-out with randomized groups. Each fold rebuilds the matrices without
//the held-out objects, centered and scaled with the statistics of the full set,
//builds its own model and predicts them. The squared errors are accumulated in
//a PRESS matrix (rows are numbers of components, columns responses) from which
//Q2 and SDEP are obtained.
package cv
