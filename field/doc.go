//Package field keeps the molecular interaction fields of a data set and the responses
//(biological activities) to model, and assembles from them the X and Y matrices
//used by the PLS engine.
//
//Each field has one variable per grid node. Variables can be excluded from the models by
//clearing their operate bit, either explicitly or with the cutoff and SD filters.
package field
