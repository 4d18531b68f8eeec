package models

// UnidentifiedDeviceID groups queries NextDNS could not attribute to a device.
const UnidentifiedDeviceID = "__UNIDENTIFIED__"

type Device struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Model   string `json:"model,omitempty"`
	LocalIP string `json:"localIp,omitempty"`
	Queries int    `json:"queries,omitempty"`
}

func (d Device) Label() string {
	switch {
	case d.ID == UnidentifiedDeviceID:
		return "Unidentified devices"
	case d.Name != "":
		return d.Name
	case d.Model != "":
		return d.Model
	default:
		return d.ID
	}
}

type DevicesResponse struct {
	Data []Device `json:"data"`
}
