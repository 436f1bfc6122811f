package windows

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"simcfg/scenario"
)

func optionStrings[T interface{ String() string }](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// boundEntry returns an entry that writes every edit through set.
func boundEntry(placeholder string, set func(string)) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	e.OnChanged = set
	return e
}

type networkTab struct {
	t *MainWindow

	totalTime, interval, dataRate, packetSize *widget.Entry
	mac, routing                              *widget.Select
}

func newNetworkTab(t *MainWindow) *networkTab {
	n := &networkTab{t: t}
	net := func() *scenario.NetworkSection { return &n.t.doc.Network }

	n.totalTime = boundEntry("seconds", func(s string) { net().TotalTime = s })
	n.interval = boundEntry("seconds", func(s string) { net().IterationInterval = s })
	n.dataRate = boundEntry("bit/s", func(s string) { net().DataRate = s })
	n.packetSize = boundEntry("bytes", func(s string) { net().PacketSize = s })

	n.mac = widget.NewSelect(optionStrings(scenario.MACProtocols), func(s string) {
		if m, err := scenario.ParseMACProtocol(s); err == nil {
			net().MAC = m
		}
	})
	n.routing = widget.NewSelect(optionStrings(scenario.RoutingProtocols), func(s string) {
		if r, err := scenario.ParseRoutingProtocol(s); err == nil {
			net().Routing = r
		}
	})
	return n
}

func (n *networkTab) content() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Total simulation time", n.totalTime),
		widget.NewFormItem("Iteration interval", n.interval),
		widget.NewFormItem("Data rate", n.dataRate),
		widget.NewFormItem("Packet size", n.packetSize),
		widget.NewFormItem("MAC protocol", n.mac),
		widget.NewFormItem("Routing protocol", n.routing),
	)
	return container.NewVScroll(widget.NewCard("", "Network settings", form))
}

func (n *networkTab) refresh() {
	net := n.t.doc.Network
	n.totalTime.SetText(net.TotalTime)
	n.interval.SetText(net.IterationInterval)
	n.dataRate.SetText(net.DataRate)
	n.packetSize.SetText(net.PacketSize)
	n.mac.SetSelected(net.MAC.String())
	n.routing.SetSelected(net.Routing.String())
}

type commTab struct {
	t *MainWindow

	bandwidth, codeRate                          *widget.Select
	modOrder, symbolsPerFrame, frames, carrierHz *widget.Entry
	fading, channelVisualization, cfo, cpe       *widget.Check
}

func newCommTab(t *MainWindow) *commTab {
	c := &commTab{t: t}
	comm := func() *scenario.CommSection { return &c.t.doc.Comm }

	c.bandwidth = widget.NewSelect(optionStrings(scenario.BandwidthIndexes()), func(s string) {
		if b, err := scenario.ParseBandwidthIndex(s); err == nil {
			comm().BandwidthIndex = b
		}
	})
	c.codeRate = widget.NewSelect(optionStrings(scenario.CodeRates), func(s string) {
		if r, err := scenario.ParseCodeRate(s); err == nil {
			comm().CodeRate = r
		}
	})

	c.modOrder = boundEntry("e.g. 4", func(s string) { comm().ModOrder = s })
	c.symbolsPerFrame = boundEntry("symbols", func(s string) { comm().NumSymPerFrame = s })
	c.frames = boundEntry("frames", func(s string) { comm().NumFrames = s })
	c.carrierHz = boundEntry("Hz", func(s string) { comm().CarrierFrequency = s })

	c.fading = widget.NewCheck("Fading", func(b bool) { comm().EnableFading = b })
	c.channelVisualization = widget.NewCheck("Channel visualization", func(b bool) { comm().ChannelVisualization = b })
	c.cfo = widget.NewCheck("Carrier frequency offset", func(b bool) { comm().EnableCFO = b })
	c.cpe = widget.NewCheck("Common phase error", func(b bool) { comm().EnableCPE = b })
	return c
}

func (c *commTab) content() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("Bandwidth index", c.bandwidth),
		widget.NewFormItem("Modulation order", c.modOrder),
		widget.NewFormItem("Code rate", c.codeRate),
		widget.NewFormItem("Symbols per frame", c.symbolsPerFrame),
		widget.NewFormItem("Frames", c.frames),
		widget.NewFormItem("Carrier frequency", c.carrierHz),
	)
	flags := container.NewGridWithColumns(2, c.fading, c.channelVisualization, c.cfo, c.cpe)
	return container.NewVScroll(container.NewVBox(
		widget.NewCard("", "Communication settings", form),
		widget.NewCard("", "Impairments", flags),
	))
}

func (c *commTab) refresh() {
	comm := c.t.doc.Comm
	c.bandwidth.SetSelected(comm.BandwidthIndex.String())
	c.codeRate.SetSelected(comm.CodeRate.String())
	c.modOrder.SetText(comm.ModOrder)
	c.symbolsPerFrame.SetText(comm.NumSymPerFrame)
	c.frames.SetText(comm.NumFrames)
	c.carrierHz.SetText(comm.CarrierFrequency)
	c.fading.SetChecked(comm.EnableFading)
	c.channelVisualization.SetChecked(comm.ChannelVisualization)
	c.cfo.SetChecked(comm.EnableCFO)
	c.cpe.SetChecked(comm.EnableCPE)
}
