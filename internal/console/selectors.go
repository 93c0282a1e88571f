package console

import "fmt"

// Selector contract for the console's Swagger UI rendering. There are no
// fallback selectors: if the console changes its markup these must be updated
// in lockstep.
const (
	summarySel   = "button.opblock-summary-control"
	tryItOutSel  = "button.try-out__btn"
	bodyInputSel = "textarea.body-param__text"
	executeSel   = "button.execute"
	responseSel  = ".live-responses-table"

	authorizeOpenSel   = ".swagger-ui .auth-wrapper > button.authorize"
	authorizeInputSel  = ".auth-container input[type='text']"
	authorizeSubmitSel = ".auth-btn-wrapper > button.authorize"
	authorizeCloseSel  = ".auth-btn-wrapper > button.btn-done"
)

// panelSelector locates the expandable opblock for one documented endpoint.
// Panels render with id "operations-<tag>-<operationId>", so matching on the
// "-<operationId>" suffix keeps callers free of tag names.
func panelSelector(endpointID string) string {
	return fmt.Sprintf("div.opblock[id$=%q]", "-"+endpointID)
}

func panelChild(endpointID, child string) string {
	return panelSelector(endpointID) + " " + child
}
