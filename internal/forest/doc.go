// Package forest implements the regression models used to predict missing
// numeric values: a squared-error CART RegressionTree and a bootstrapped
// RandomForestRegressor that averages many trees.
//
// Trees are stored as a flat node slice. Splits are searched over sorted
// feature values with running sums, and thresholds are the midpoint between
// two consecutive distinct values.
//
// Usage:
//
//	rf := forest.NewRandomForestRegressor(
//	    forest.WithNEstimators(100),
//	    forest.WithRandomState(42),
//	)
//	if err := rf.Fit(ctx, X, y); err != nil {
//	    return err
//	}
//	predictions := rf.Predict(Xmissing)
//
// Fitting is concurrent (one goroutine per tree, bounded by Workers) and
// deterministic for a fixed RandomState.
package forest
