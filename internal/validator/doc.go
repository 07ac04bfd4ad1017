// Package validator checks a filesbackup configuration and reports what it
// finds.
//
// Findings are [Issue] values grouped in a [Result]. Each carries a
// [Severity]:
//
//   - SeverityError: the configuration cannot be used (bad version, an
//     exclude entry outside the source)
//   - SeverityWarning: the configuration works but likely not as meant (an
//     include entry hidden by an exclude entry, a missing source)
//   - SeverityInfo: notes about the effective behavior
//
// # Basic Usage
//
//	result := validator.CheckConfig(cfg)
//	result.File = config.FileUsed()
//	if err := validator.NewReporter(os.Stdout, validator.FormatText).Report(result); err != nil {
//		return err
//	}
//	if result.HasErrors() {
//		// handle validation failure
//	}
package validator
