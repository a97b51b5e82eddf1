package utils

//HeadJointType is the joint category used to decide whether a person's head is visible (head_top)
const HeadJointType = 0

//DefaultPadding is the absolute margin (in pixels) added around the joints extent of a pose
const DefaultPadding = 20

//MaxColors is the number of colors in the visualization palette. Person ids above it share colors.
const MaxColors = 42

//FrameWidth is the default width of a synthetic sequence frame
const FrameWidth = 1920

//FrameHeight is the default height of a synthetic sequence frame
const FrameHeight = 1080

//MaxFrameCount is the default ceiling on the number of frames of a sequence or document.
//Frame indexes read from data at or above it are rejected before any per frame allocation.
const MaxFrameCount = 1 << 20

//FPS is the default frame rate of the reassembled videos
const FPS = 20

//PersonLabel is the label every pose derived box is written with
const PersonLabel = "person"

//DocumentVersion is the version declared in the root of the structured annotation document
const DocumentVersion = "1.1"

//SkippedExtensions are the files in a sequence directory which are never frames
var SkippedExtensions = []string{".csv", ".txt", ".mp4", ".json", ".xml"}
