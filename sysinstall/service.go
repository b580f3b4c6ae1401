package sysinstall

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// GenerateServiceFile 生成 systemd 服务文件内容
func (si *SystemInstaller) GenerateServiceFile() string {
	runUser := si.config.RunUser
	if runUser == "" {
		runUser = "root"
	}

	execStart := fmt.Sprintf("%s -c %s", DefaultBinaryPath(), si.configPath())

	return fmt.Sprintf(`[Unit]
Description=Privacy Guard tracking detection engine
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart=%s
Restart=always
RestartSec=5
User=%s
WorkingDirectory=%s
StandardOutput=journal
StandardError=journal
SyslogIdentifier=%s

[Install]
WantedBy=multi-user.target
`, execStart, runUser, DefaultDataDir, ServiceName)
}

func servicePath() string {
	return "/etc/systemd/system/" + ServiceName + ".service"
}

// WriteServiceFile 写入 systemd 服务文件
func (si *SystemInstaller) WriteServiceFile() error {
	content := si.GenerateServiceFile()

	if si.config.DryRun {
		fmt.Printf("[DRY-RUN] 将写入服务文件：%s\n", servicePath())
		fmt.Printf("[DRY-RUN] 内容：\n%s\n", content)
		return nil
	}

	si.log("写入 systemd 服务文件：%s", servicePath())
	if err := os.WriteFile(servicePath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("写入服务文件失败: %v", err)
	}
	return nil
}

// RemoveServiceFile 删除服务文件
func (si *SystemInstaller) RemoveServiceFile() error {
	if si.config.DryRun {
		fmt.Printf("[DRY-RUN] 将删除服务文件：%s\n", servicePath())
		return nil
	}

	si.log("删除服务文件：%s", servicePath())
	if err := os.Remove(servicePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除服务文件失败: %v", err)
	}
	return nil
}

// ReloadSystemd 重新加载 systemd
func (si *SystemInstaller) ReloadSystemd() error {
	return si.systemctl("daemon-reload")
}

// EnableService 启用服务
func (si *SystemInstaller) EnableService() error {
	return si.systemctl("enable", ServiceName)
}

// StartService 启动服务
func (si *SystemInstaller) StartService() error {
	return si.systemctl("start", ServiceName)
}

// StopService 停止服务
func (si *SystemInstaller) StopService() error {
	return si.systemctl("stop", ServiceName)
}

// DisableService 禁用服务
func (si *SystemInstaller) DisableService() error {
	return si.systemctl("disable", ServiceName)
}

func (si *SystemInstaller) systemctl(args ...string) error {
	if si.config.DryRun {
		fmt.Printf("[DRY-RUN] 将执行命令：systemctl %s\n", strings.Join(args, " "))
		return nil
	}

	si.log("执行：systemctl %s", strings.Join(args, " "))
	cmd := exec.Command("systemctl", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("systemctl %s 失败: %v, 输出: %s", strings.Join(args, " "), err, string(output))
	}
	return nil
}

// GetServiceStatus 获取服务状态
func (si *SystemInstaller) GetServiceStatus() (string, error) {
	cmd := exec.Command("systemctl", "is-active", ServiceName)
	output, err := cmd.CombinedOutput()
	status := strings.TrimSpace(string(output))

	if err != nil && status == "inactive" {
		return "inactive", nil
	}
	return status, err
}

// GetServiceDetails 获取服务详细信息
func (si *SystemInstaller) GetServiceDetails() (string, error) {
	cmd := exec.Command("systemctl", "status", ServiceName)
	output, err := cmd.CombinedOutput()
	return string(output), err
}
