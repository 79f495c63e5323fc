package cmd

const (
	RootCmdName  = "carprice"
	RootCmdShort = "Used car price prediction client"
	RootCmdLong  = `carprice collects used car attributes, submits them to a price
prediction endpoint and shows the returned estimate.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Serve the prediction form over HTTP"
	ServeCmdLong  = `Serve the prediction form to browsers at / and as a JSON API under
/api/v1/form. Each browser gets its own in-memory form session.`

	PredictCmdName  = "predict"
	PredictCmdShort = "Fill the form and request a single prediction"
	PredictCmdLong  = `Fill the form from --set name=value pairs, optionally prompting for the
remaining fields, then submit it and print the estimate.`

	FieldsCmdName  = "fields"
	FieldsCmdShort = "List the fields of the active form variant"
)
